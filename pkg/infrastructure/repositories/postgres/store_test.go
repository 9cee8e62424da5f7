package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

// openTestStore connects to RECEIVING_TEST_DATABASE_URL or skips the test
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("RECEIVING_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RECEIVING_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(ctx))
	return store
}

func seedMatchPair(t *testing.T, store *Store) (string, string) {
	t.Helper()
	ctx := context.Background()

	poID := uuid.NewString()
	po, err := entities.NewPurchaseOrder(poID, "PO-"+poID[:8], "Harbour Spirits", []entities.PurchaseOrderLineItem{
		{ItemCode: entities.Code("GIN-01"), ItemName: "Gin", Quantity: entities.Float(6), PricePerUnit: entities.Float(18)},
		{ItemName: "Tonic", Quantity: entities.Float(24), PricePerUnit: nil},
	})
	require.NoError(t, err)
	require.NoError(t, store.SavePurchaseOrder(ctx, po))

	receivedID := uuid.NewString()
	record, err := entities.NewReceivedRecord(receivedID, "Harbour Spirits", "INV-1", []entities.ReceivedLineItem{
		{ItemName: "gin", Quantity: entities.Float(6), UnitPrice: entities.Float(18), TotalPrice: entities.Float(108)},
		{ItemName: "tonic", Quantity: nil},
	})
	require.NoError(t, err)
	record.MatchedPOID = poID
	record.VarianceData = entities.VarianceDocument{entities.DocumentKey: map[string]any{"path": "x"}}
	require.NoError(t, store.SaveReceivedRecord(ctx, record))

	return receivedID, poID
}

func TestStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	receivedID, poID := seedMatchPair(t, store)

	po, err := store.GetPurchaseOrder(ctx, poID)
	require.NoError(t, err)
	require.Len(t, po.Items, 2)
	require.NotNil(t, po.Items[0].ItemCode)
	assert.Equal(t, entities.ItemCode("GIN-01"), *po.Items[0].ItemCode)
	assert.Nil(t, po.Items[1].ItemCode)
	assert.Nil(t, po.Items[1].PricePerUnit)

	record, err := store.GetReceivedRecord(ctx, receivedID)
	require.NoError(t, err)
	assert.Equal(t, entities.Pending, record.Status)
	assert.Equal(t, poID, record.MatchedPOID)
	require.Len(t, record.Items, 2)
	assert.Nil(t, record.Items[1].Quantity)
	document, ok := record.VarianceData[entities.DocumentKey].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "x", document["path"])

	pending, err := store.ListPendingMatches(ctx)
	require.NoError(t, err)
	assert.Contains(t, pending, entities.PendingMatch{ReceivedRecordID: receivedID, PurchaseOrderID: poID})
}

func TestStore_SaveMatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	receivedID, poID := seedMatchPair(t, store)

	err := store.SaveMatch(ctx, repositories.MatchCommit{
		ReceivedRecordID: receivedID,
		PurchaseOrderID:  poID,
		VarianceData: entities.VarianceDocument{
			entities.DocumentKey:  map[string]any{"path": "x"},
			entities.MatchedPOKey: entities.PODescriptor{ID: poID, PONumber: "PO-1"},
		},
	})
	require.NoError(t, err)

	record, err := store.GetReceivedRecord(ctx, receivedID)
	require.NoError(t, err)
	assert.Equal(t, entities.Matched, record.Status)
	assert.Contains(t, record.VarianceData, entities.MatchedPOKey)
	assert.Contains(t, record.VarianceData, entities.DocumentKey)

	po, err := store.GetPurchaseOrder(ctx, poID)
	require.NoError(t, err)
	assert.Equal(t, entities.Received, po.Status)
}

func TestStore_SaveMatch_RollsBackOnUnknownRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	_, poID := seedMatchPair(t, store)

	err := store.SaveMatch(ctx, repositories.MatchCommit{
		ReceivedRecordID: uuid.NewString(),
		PurchaseOrderID:  poID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrReceivedRecordNotFound))

	po, err := store.GetPurchaseOrder(ctx, poID)
	require.NoError(t, err)
	assert.Equal(t, entities.Ordered, po.Status, "purchase order update must be rolled back")
}

func TestStore_NotFound(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.GetPurchaseOrder(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrPurchaseOrderNotFound)

	_, err = store.GetReceivedRecord(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrReceivedRecordNotFound)
}
