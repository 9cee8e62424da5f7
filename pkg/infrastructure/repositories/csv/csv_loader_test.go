package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

func TestReadPurchaseOrderItems(t *testing.T) {
	data := "item_code,item_name,quantity,price_per_unit,price_total\n" +
		"LJ-1,Lime Juice,10,2,20\n" +
		",Gin,5,,\n"

	items, err := NewLoader().ReadPurchaseOrderItems(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].ItemCode)
	assert.Equal(t, entities.ItemCode("LJ-1"), *items[0].ItemCode)
	assert.Equal(t, "Lime Juice", items[0].ItemName)
	assert.Equal(t, 10.0, *items[0].Quantity)
	assert.Equal(t, 2.0, *items[0].PricePerUnit)

	assert.Nil(t, items[1].ItemCode)
	assert.Nil(t, items[1].PricePerUnit)
	assert.Nil(t, items[1].PriceTotal)
}

func TestReadReceivedItems(t *testing.T) {
	data := "Item_Name, Quantity ,unit_price,total_price\n" +
		"lime juice,7.5,2,15\n" +
		"Tonic,,,\n"

	items, err := NewLoader().ReadReceivedItems(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 7.5, *items[0].Quantity)
	assert.Nil(t, items[1].Quantity)
}

func TestReadReceivedItems_HeaderOnly(t *testing.T) {
	items, err := NewLoader().ReadReceivedItems(strings.NewReader("item_name,quantity,unit_price,total_price\n"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		data        string
		expectError string
	}{
		{"empty file", "", "received items CSV must have a header row"},
		{"wrong header", "name,qty,unit_price,total_price\n", "received items CSV header mismatch"},
		{"short row", "item_name,quantity,unit_price,total_price\nGin,1\n", "received items CSV row 2: expected 4 columns, got 2"},
		{"bad number", "item_name,quantity,unit_price,total_price\nGin,one,,\n", "received items CSV row 2: invalid quantity: one"},
		{"non-finite number", "item_name,quantity,unit_price,total_price\nGin,1,NaN,\n", "received items CSV row 2: invalid unit_price: NaN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().ReadReceivedItems(strings.NewReader(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectError)
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	poPath := filepath.Join(dir, "po.csv")
	receivedPath := filepath.Join(dir, "received.csv")
	require.NoError(t, os.WriteFile(poPath, []byte("item_code,item_name,quantity,price_per_unit,price_total\n,Gin,5,20,100\n"), 0644))
	require.NoError(t, os.WriteFile(receivedPath, []byte("item_name,quantity,unit_price,total_price\ngin,5,20,100\n"), 0644))

	loader := NewLoader()
	poItems, err := loader.LoadPurchaseOrderItems(poPath)
	require.NoError(t, err)
	assert.Len(t, poItems, 1)

	receivedItems, err := loader.LoadReceivedItems(receivedPath)
	require.NoError(t, err)
	assert.Len(t, receivedItems, 1)

	_, err = loader.LoadReceivedItems(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
