package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/receiving/pkg/application/services"
	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/services/reconciliation"
	"github.com/vsinha/receiving/pkg/infrastructure/events"
	"github.com/vsinha/receiving/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/receiving/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/receiving/pkg/interfaces/cli/output"
)

// offlineReceivedID names the received record built from the -received file
const offlineReceivedID = "received"

// ReconcileConfig holds configuration for the reconcile command
type ReconcileConfig struct {
	POFile       string
	ReceivedFile string
	ExistingFile string
	POID         string
	PONumber     string
	Supplier     string
	OutputDir    string
	Format       string
	Verbose      bool
	Help         bool

	// Out receives console output; defaults to stdout
	Out io.Writer
}

// ReconcileCommand reconciles a purchase order and a delivery read from CSV files
type ReconcileCommand struct {
	config ReconcileConfig
}

// NewReconcileCommand creates a new reconcile command with the given configuration
func NewReconcileCommand(config ReconcileConfig) *ReconcileCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &ReconcileCommand{
		config: config,
	}
}

// Execute runs the reconcile command
func (c *ReconcileCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
		fmt.Fprintln(c.config.Out, "📂 Loading data from CSV files...")
	}

	csvLoader := csv.NewLoader()

	poItems, err := csvLoader.LoadPurchaseOrderItems(files["PurchaseOrder"])
	if err != nil {
		return fmt.Errorf("error loading purchase order items: %w", err)
	}

	receivedItems, err := csvLoader.LoadReceivedItems(files["Received"])
	if err != nil {
		return fmt.Errorf("error loading received items: %w", err)
	}

	existing, err := loadExistingDocument(c.config.ExistingFile)
	if err != nil {
		return fmt.Errorf("error loading existing variance document: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "✅ Data loaded successfully:\n")
		fmt.Fprintf(c.config.Out, "  Purchase Order Lines: %d\n", len(poItems))
		fmt.Fprintf(c.config.Out, "  Received Lines: %d\n", len(receivedItems))
		if existing != nil {
			fmt.Fprintf(c.config.Out, "  Existing Document Keys: %d\n", len(existing))
		}
		fmt.Fprintln(c.config.Out)
	}

	poID := c.config.POID
	if poID == "" {
		poID = strings.TrimSuffix(filepath.Base(files["PurchaseOrder"]), filepath.Ext(files["PurchaseOrder"]))
	}
	poNumber := c.config.PONumber
	if poNumber == "" {
		poNumber = poID
	}

	po, err := entities.NewPurchaseOrder(poID, poNumber, c.config.Supplier, poItems)
	if err != nil {
		return fmt.Errorf("invalid purchase order: %w", err)
	}

	record, err := entities.NewReceivedRecord(offlineReceivedID, c.config.Supplier, "", receivedItems)
	if err != nil {
		return fmt.Errorf("invalid received record: %w", err)
	}
	record.VarianceData = existing

	store := memory.NewStore()
	if err := store.SavePurchaseOrder(po); err != nil {
		return fmt.Errorf("failed to load purchase order into repository: %w", err)
	}
	if err := store.SaveReceivedRecord(record); err != nil {
		return fmt.Errorf("failed to load received record into repository: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if c.config.Verbose {
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	service := services.NewReceivingService(
		store,
		store,
		store,
		reconciliation.NewReconciler(),
		events.NewInMemoryEventStore(logger),
		logger,
	)

	if c.config.Verbose {
		fmt.Fprintln(c.config.Out, "🔄 Reconciling received goods against the purchase order...")
	}

	startTime := time.Now()
	outcome, err := service.ReconcileAndSave(ctx, record.ID, po.ID)
	reconcileTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error reconciling: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "✅ Reconciliation completed in %v\n\n", reconcileTime)
	}

	outputConfig := output.Config{
		Format:        c.config.Format,
		OutputDir:     c.config.OutputDir,
		Verbose:       c.config.Verbose,
		ReconcileTime: reconcileTime,
		InputFiles:    files,
		Out:           c.config.Out,
	}

	if err := output.Generate(outcome, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// validateInputs validates the command configuration
func (c *ReconcileCommand) validateInputs() error {
	if c.config.POFile == "" || c.config.ReceivedFile == "" {
		return fmt.Errorf("must specify both -po and -received CSV files")
	}
	return nil
}

// resolveInputFiles checks that every input file exists
func (c *ReconcileCommand) resolveInputFiles() (map[string]string, error) {
	files := map[string]string{
		"PurchaseOrder": c.config.POFile,
		"Received":      c.config.ReceivedFile,
	}
	if c.config.ExistingFile != "" {
		files["Existing"] = c.config.ExistingFile
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// loadExistingDocument reads a previously stored variance document, if any
func loadExistingDocument(path string) (entities.VarianceDocument, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc entities.VarianceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s is not a JSON object: %w", path, err)
	}
	return doc, nil
}

// printHeader prints the command header information
func (c *ReconcileCommand) printHeader(files map[string]string) {
	fmt.Fprintf(c.config.Out, "🚀 Receiving Reconciliation CLI\n")
	fmt.Fprintf(c.config.Out, "Input files:\n")
	fmt.Fprintf(c.config.Out, "  Purchase Order: %s\n", files["PurchaseOrder"])
	fmt.Fprintf(c.config.Out, "  Received: %s\n", files["Received"])
	if existing, ok := files["Existing"]; ok {
		fmt.Fprintf(c.config.Out, "  Existing Document: %s\n", existing)
	}
	fmt.Fprintf(c.config.Out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.config.Out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.config.Out)
}

// showHelp displays the help message
func (c *ReconcileCommand) showHelp() {
	fmt.Fprint(c.config.Out, `receiving reconcile - Compare a delivery against its purchase order

USAGE:
    receiving reconcile -po <file> -received <file> [options]

OPTIONS:
    -po <file>          Path to purchase order lines CSV file
    -received <file>    Path to received lines CSV file
    -existing <file>    Previously stored variance document (JSON) to merge into
    -po-id <id>         Purchase order id (default: PO file name)
    -po-number <num>    Purchase order number (default: PO id)
    -supplier <name>    Supplier name
    -output <dir>       Output directory for results (required for csv, xlsx)
    -format <fmt>       Output format: text, json, csv, xlsx (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

CSV FILE FORMATS:

purchase order:
    item_code,item_name,quantity,price_per_unit,price_total
    VOD-700,Vodka,12,15,180
    ,Lime Juice,4,5,20

received:
    item_name,quantity,unit_price,total_price
    vodka,10,15.5,155
    Olives,3,4,12

Item names are compared case-insensitively with whitespace collapsed.
Empty numeric cells count as zero.

EXAMPLES:
    # Print a variance table
    receiving reconcile -po data/po.csv -received data/delivery.csv

    # Merge into a stored document and print it as JSON
    receiving reconcile -po data/po.csv -received data/delivery.csv -existing data/variance.json -format json

    # Write a spreadsheet for a supplier dispute
    receiving reconcile -po data/po.csv -received data/delivery.csv -format xlsx -output reports/
`)
}
