package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/domain/entities"
)

// Report file names written into the output directory
const (
	JSONFileName = "variance_report.json"
	CSVFileName  = "variance_report.csv"
	XLSXFileName = "variance_report.xlsx"
)

// TextTimestamp is the layout used for generated_at in human-readable reports
const TextTimestamp = "2006-01-02 15:04:05 MST"

// Config holds configuration for output generation
type Config struct {
	Format        string
	OutputDir     string
	Verbose       bool
	ReconcileTime time.Duration
	InputFiles    map[string]string

	// Out receives console output; defaults to stdout
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate creates output in the specified format
func Generate(outcome *dto.MatchOutcome, config Config) error {
	if outcome == nil {
		return fmt.Errorf("no reconciliation outcome to report")
	}

	switch config.Format {
	case "text", "":
		return generateTextOutput(outcome, config)
	case "json":
		return generateJSONOutput(outcome, config)
	case "csv":
		return generateCSVOutput(outcome, config)
	case "xlsx":
		return generateXLSXOutput(outcome, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints a human-readable variance table
func generateTextOutput(outcome *dto.MatchOutcome, config Config) error {
	w := config.out()
	result := outcome.Result
	summary := result.Summary

	fmt.Fprintf(w, "📊 Variance Report\n")
	fmt.Fprintf(w, "==================\n\n")

	fmt.Fprintf(w, "Received Record: %s\n", outcome.ReceivedRecordID)
	fmt.Fprintf(w, "Purchase Order: %s (%s)\n", outcome.PurchaseOrder.PONumber, outcome.PurchaseOrder.ID)
	if outcome.PurchaseOrder.SupplierName != "" {
		fmt.Fprintf(w, "Supplier: %s\n", outcome.PurchaseOrder.SupplierName)
	}
	fmt.Fprintf(w, "Generated At: %s\n", result.GeneratedAt.Format(TextTimestamp))
	if config.Verbose {
		fmt.Fprintf(w, "Reconcile Time: %v\n", config.ReconcileTime)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Matched: %d  Short: %d  Over: %d  Missing: %d  Extra: %d\n\n",
		summary.Matched, summary.Short, summary.Over, summary.Missing, summary.Extra)

	if len(result.Items) > 0 {
		fmt.Fprintf(w, "%-12s %-28s %-10s %-10s %-10s %-8s %-10s %-10s\n",
			"Item Code", "Item Name", "Ordered", "Received", "Variance", "Status", "PO Price", "Rcv Price")
		fmt.Fprintf(w, "%-12s %-28s %-10s %-10s %-10s %-8s %-10s %-10s\n",
			"------------", "----------------------------", "----------", "----------",
			"----------", "--------", "----------", "----------")

		for _, line := range result.Items {
			fmt.Fprintf(w, "%-12s %-28s %-10s %-10s %-10s %-8s %-10s %-10s\n",
				itemCode(line.ItemCode),
				line.ItemName,
				formatNumber(line.OrderedQty),
				formatNumber(line.ReceivedQty),
				formatSigned(line.Variance),
				line.Status.String(),
				formatOptional(line.OrderedPrice),
				formatOptional(line.ReceivedPrice))
		}
		fmt.Fprintln(w)
	}

	if !outcome.HasVariance() {
		fmt.Fprintf(w, "✅ Delivery matches the purchase order\n")
	} else {
		fmt.Fprintf(w, "⚠️  %d of %d lines differ from the purchase order\n",
			summary.Total()-summary.Matched, summary.Total())
	}

	return nil
}

// generateJSONOutput writes the merged variance document
func generateJSONOutput(outcome *dto.MatchOutcome, config Config) error {
	jsonData, err := json.MarshalIndent(outcome.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, JSONFileName)
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// reportHeader is the column layout shared by the csv and xlsx reports
var reportHeader = []string{
	"item_code", "item_name", "ordered_qty", "received_qty",
	"variance", "status", "ordered_price", "received_price",
}

func itemCode(code *entities.ItemCode) string {
	if code == nil {
		return ""
	}
	return string(*code)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSigned(v float64) string {
	if v > 0 {
		return "+" + formatNumber(v)
	}
	return formatNumber(v)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}
