package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Generated scenario file names
const (
	GeneratedPOFile       = "po.csv"
	GeneratedReceivedFile = "received.csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Lines        int     // Number of purchase order lines to generate
	VarianceRate float64 // Share of lines delivered with a discrepancy (0..1)
	OutputDir    string  // Output directory for generated files
	Seed         int64   // Random seed for reproducible generation
	Help         bool    // Show help
	Verbose      bool    // Verbose output

	Out io.Writer
}

// GenerateCommand writes a synthetic purchase order and delivery pair
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

var catalogue = []string{
	"Vodka", "Gin", "Dark Rum", "Tonic Water", "Soda Water", "Lime Juice",
	"Olives", "Lemons", "Cola", "Ginger Beer", "Bitters", "Sugar Syrup",
}

type orderLine struct {
	code     string
	name     string
	quantity int
	price    float64
}

type receivedLine struct {
	name     string
	quantity int
	price    float64
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if cmd.config.Lines <= 0 {
		return fmt.Errorf("validation error: -lines must be positive")
	}
	if cmd.config.VarianceRate < 0 || cmd.config.VarianceRate > 1 {
		return fmt.Errorf("validation error: -variance must be between 0 and 1")
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("validation error: -output directory is required")
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out, "🔧 Generating %d order lines, %.0f%% delivered with variance\n",
			cmd.config.Lines, cmd.config.VarianceRate*100)
		fmt.Fprintf(cmd.config.Out, "📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	order := cmd.generateOrder()
	delivery := cmd.generateDelivery(order)

	if err := cmd.writeOrder(order); err != nil {
		return fmt.Errorf("failed to generate purchase order: %w", err)
	}
	if err := cmd.writeDelivery(delivery); err != nil {
		return fmt.Errorf("failed to generate delivery: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out, "✅ Scenario generated: %d order lines, %d received lines\n", len(order), len(delivery))
	}

	return nil
}

func (cmd *GenerateCommand) generateOrder() []orderLine {
	lines := make([]orderLine, 0, cmd.config.Lines)
	for i := 0; i < cmd.config.Lines; i++ {
		base := catalogue[i%len(catalogue)]
		lines = append(lines, orderLine{
			code:     fmt.Sprintf("SKU-%04d", i+1),
			name:     fmt.Sprintf("%s %03d", base, i+1),
			quantity: 1 + cmd.rand.Intn(48),
			price:    float64(50+cmd.rand.Intn(3950)) / 100,
		})
	}
	return lines
}

// generateDelivery perturbs the order: names change case and spacing, some
// lines arrive split in two, and a share of lines are short, over or missing.
// A few unordered items are added at the end.
func (cmd *GenerateCommand) generateDelivery(order []orderLine) []receivedLine {
	delivery := make([]receivedLine, 0, len(order)+len(order)/4)

	for _, line := range order {
		qty := line.quantity
		if cmd.rand.Float64() < cmd.config.VarianceRate {
			switch cmd.rand.Intn(3) {
			case 0:
				qty -= 1 + cmd.rand.Intn(line.quantity)
			case 1:
				qty += 1 + cmd.rand.Intn(6)
			default:
				continue
			}
		}
		if qty <= 0 {
			continue
		}

		name := cmd.disguise(line.name)
		if qty > 1 && cmd.rand.Intn(5) == 0 {
			first := 1 + cmd.rand.Intn(qty-1)
			delivery = append(delivery,
				receivedLine{name: name, quantity: first, price: line.price},
				receivedLine{name: cmd.disguise(line.name), quantity: qty - first, price: line.price},
			)
			continue
		}
		delivery = append(delivery, receivedLine{name: name, quantity: qty, price: line.price})
	}

	extras := int(float64(len(order)) * cmd.config.VarianceRate / 4)
	for i := 0; i < extras; i++ {
		delivery = append(delivery, receivedLine{
			name:     fmt.Sprintf("Unordered Item %03d", i+1),
			quantity: 1 + cmd.rand.Intn(6),
			price:    float64(100+cmd.rand.Intn(900)) / 100,
		})
	}

	return delivery
}

// disguise changes only case and whitespace, so the name still normalizes to the ordered one
func (cmd *GenerateCommand) disguise(name string) string {
	switch cmd.rand.Intn(4) {
	case 0:
		return strings.ToUpper(name)
	case 1:
		return strings.ToLower(name)
	case 2:
		return "  " + strings.ReplaceAll(name, " ", "  ") + " "
	default:
		return name
	}
}

// writeOrder creates the po.csv file
func (cmd *GenerateCommand) writeOrder(lines []orderLine) error {
	filePath := filepath.Join(cmd.config.OutputDir, GeneratedPOFile)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintln(file, "item_code,item_name,quantity,price_per_unit,price_total")
	for _, line := range lines {
		fmt.Fprintf(file, "%s,%s,%d,%.2f,%.2f\n",
			line.code, line.name, line.quantity, line.price, line.price*float64(line.quantity))
	}

	return file.Close()
}

// writeDelivery creates the received.csv file
func (cmd *GenerateCommand) writeDelivery(lines []receivedLine) error {
	filePath := filepath.Join(cmd.config.OutputDir, GeneratedReceivedFile)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintln(file, "item_name,quantity,unit_price,total_price")
	for _, line := range lines {
		fmt.Fprintf(file, "%s,%d,%.2f,%.2f\n",
			line.name, line.quantity, line.price, line.price*float64(line.quantity))
	}

	return file.Close()
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.config.Out, `Receiving Scenario Generator

USAGE:
    receiving generate [OPTIONS]

OPTIONS:
    -lines <N>          Number of purchase order lines to generate (required)
    -variance <F>       Share of lines delivered short, over or missing (default: 0.2)
    -output <DIR>       Output directory for po.csv and received.csv (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate a small delivery and reconcile it
    receiving generate -lines 20 -output ./scenario
    receiving reconcile -po ./scenario/po.csv -received ./scenario/received.csv

    # Generate a reproducible large scenario with no discrepancies
    receiving generate -lines 5000 -variance 0 -output ./large_scenario -seed 12345`)
}
