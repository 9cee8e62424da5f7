package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

var (
	purchaseOrderHeader = []string{"item_code", "item_name", "quantity", "price_per_unit", "price_total"}
	receivedHeader      = []string{"item_name", "quantity", "unit_price", "total_price"}
)

// Loader handles loading purchase order and received line items from CSV files.
// Empty numeric cells are kept as absent values.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadPurchaseOrderItems loads purchase order lines from a CSV file
func (l *Loader) LoadPurchaseOrderItems(filename string) ([]entities.PurchaseOrderLineItem, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open purchase order file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadPurchaseOrderItems(file)
}

// ReadPurchaseOrderItems parses purchase order lines from CSV data
func (l *Loader) ReadPurchaseOrderItems(r io.Reader) ([]entities.PurchaseOrderLineItem, error) {
	records, err := readRecords(r, "purchase order", purchaseOrderHeader)
	if err != nil {
		return nil, err
	}

	items := make([]entities.PurchaseOrderLineItem, 0, len(records))
	for i, record := range records {
		item, err := parsePurchaseOrderItem(record)
		if err != nil {
			return nil, fmt.Errorf("purchase order CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// LoadReceivedItems loads received lines from a CSV file
func (l *Loader) LoadReceivedItems(filename string) ([]entities.ReceivedLineItem, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open received items file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadReceivedItems(file)
}

// ReadReceivedItems parses received lines from CSV data
func (l *Loader) ReadReceivedItems(r io.Reader) ([]entities.ReceivedLineItem, error) {
	records, err := readRecords(r, "received items", receivedHeader)
	if err != nil {
		return nil, err
	}

	items := make([]entities.ReceivedLineItem, 0, len(records))
	for i, record := range records {
		item, err := parseReceivedItem(record)
		if err != nil {
			return nil, fmt.Errorf("received items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// Helper functions for parsing CSV records

func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parsePurchaseOrderItem(record []string) (entities.PurchaseOrderLineItem, error) {
	quantity, err := parseOptionalNumber("quantity", record[2])
	if err != nil {
		return entities.PurchaseOrderLineItem{}, err
	}

	pricePerUnit, err := parseOptionalNumber("price_per_unit", record[3])
	if err != nil {
		return entities.PurchaseOrderLineItem{}, err
	}

	priceTotal, err := parseOptionalNumber("price_total", record[4])
	if err != nil {
		return entities.PurchaseOrderLineItem{}, err
	}

	return entities.PurchaseOrderLineItem{
		ItemCode:     entities.Code(strings.TrimSpace(record[0])),
		ItemName:     record[1],
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		PriceTotal:   priceTotal,
	}, nil
}

func parseReceivedItem(record []string) (entities.ReceivedLineItem, error) {
	quantity, err := parseOptionalNumber("quantity", record[1])
	if err != nil {
		return entities.ReceivedLineItem{}, err
	}

	unitPrice, err := parseOptionalNumber("unit_price", record[2])
	if err != nil {
		return entities.ReceivedLineItem{}, err
	}

	totalPrice, err := parseOptionalNumber("total_price", record[3])
	if err != nil {
		return entities.ReceivedLineItem{}, err
	}

	return entities.ReceivedLineItem{
		ItemName:   record[0],
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
	}, nil
}

func parseOptionalNumber(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s: %s", field, s)
	}
	return &v, nil
}
