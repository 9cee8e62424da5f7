package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/domain/entities"
)

const (
	summarySheet = "Summary"
	itemsSheet   = "Items"
)

// generateXLSXOutput writes a workbook with a Summary and an Items sheet
func generateXLSXOutput(outcome *dto.MatchOutcome, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for XLSX format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, XLSXFileName)
	if err := writeVarianceWorkbook(outcome, filename); err != nil {
		return fmt.Errorf("failed to write variance workbook: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 XLSX results saved to: %s\n", filename)
	}
	return nil
}

func writeVarianceWorkbook(outcome *dto.MatchOutcome, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return err
	}

	summary := outcome.Result.Summary
	summaryRows := [][]any{
		{"Received Record", outcome.ReceivedRecordID},
		{"Purchase Order", outcome.PurchaseOrder.PONumber},
		{"Purchase Order ID", outcome.PurchaseOrder.ID},
		{"Supplier", outcome.PurchaseOrder.SupplierName},
		{"Generated At", outcome.Result.GeneratedAt.Format(TextTimestamp)},
		{},
		{"Status", "Lines"},
		{entities.StatusMatch.String(), summary.Matched},
		{entities.StatusShort.String(), summary.Short},
		{entities.StatusOver.String(), summary.Over},
		{entities.StatusMissing.String(), summary.Missing},
		{entities.StatusExtra.String(), summary.Extra},
		{"total", summary.Total()},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return err
	}

	itemRows := make([][]any, 0, len(outcome.Result.Items)+1)
	header := make([]any, len(reportHeader))
	for i, name := range reportHeader {
		header[i] = name
	}
	itemRows = append(itemRows, header)
	for _, line := range outcome.Result.Items {
		itemRows = append(itemRows, []any{
			itemCode(line.ItemCode),
			line.ItemName,
			line.OrderedQty,
			line.ReceivedQty,
			line.Variance,
			line.Status.String(),
			optionalCell(line.OrderedPrice),
			optionalCell(line.ReceivedPrice),
		})
	}
	if err := writeRows(f, itemsSheet, itemRows); err != nil {
		return err
	}

	return f.SaveAs(filename)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// optionalCell leaves absent prices as empty cells
func optionalCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
