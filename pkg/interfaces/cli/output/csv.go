package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/domain/entities"
)

// generateCSVOutput writes one row per variance line
func generateCSVOutput(outcome *dto.MatchOutcome, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, CSVFileName)
	if err := writeVarianceCSV(outcome.Result.Items, filename); err != nil {
		return fmt.Errorf("failed to write variance CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 CSV results saved to: %s\n", filename)
	}
	return nil
}

func writeVarianceCSV(lines []entities.VarianceLine, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(reportHeader); err != nil {
		return err
	}

	for _, line := range lines {
		record := []string{
			itemCode(line.ItemCode),
			line.ItemName,
			formatNumber(line.OrderedQty),
			formatNumber(line.ReceivedQty),
			formatNumber(line.Variance),
			line.Status.String(),
			formatOptional(line.OrderedPrice),
			formatOptional(line.ReceivedPrice),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
