package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/repositories"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()

	po, err := entities.NewPurchaseOrder("po-1", "PO-0001", "Harbour Spirits", []entities.PurchaseOrderLineItem{
		{ItemName: "Gin", Quantity: entities.Float(6), PricePerUnit: entities.Float(18)},
	})
	if err != nil {
		t.Fatalf("Failed to create purchase order: %v", err)
	}
	if err := store.SavePurchaseOrder(po); err != nil {
		t.Fatalf("Failed to save purchase order: %v", err)
	}

	record, err := entities.NewReceivedRecord("rcv-1", "Harbour Spirits", "INV-77", []entities.ReceivedLineItem{
		{ItemName: "gin", Quantity: entities.Float(6), UnitPrice: entities.Float(18)},
	})
	if err != nil {
		t.Fatalf("Failed to create received record: %v", err)
	}
	record.MatchedPOID = "po-1"
	record.VarianceData = entities.VarianceDocument{entities.DocumentKey: map[string]any{"path": "x"}}
	if err := store.SaveReceivedRecord(record); err != nil {
		t.Fatalf("Failed to save received record: %v", err)
	}

	return store
}

func TestStore_GetPurchaseOrder(t *testing.T) {
	store := seedStore(t)

	po, err := store.GetPurchaseOrder(context.Background(), "po-1")
	if err != nil {
		t.Fatalf("Failed to get purchase order: %v", err)
	}
	if po.PONumber != "PO-0001" {
		t.Errorf("Expected po number PO-0001, got %s", po.PONumber)
	}

	// Mutating the returned copy must not leak into the store
	po.Items[0].ItemName = "Vodka"
	again, _ := store.GetPurchaseOrder(context.Background(), "po-1")
	if again.Items[0].ItemName != "Gin" {
		t.Errorf("Expected stored item name Gin, got %s", again.Items[0].ItemName)
	}

	_, err = store.GetPurchaseOrder(context.Background(), "missing")
	if !errors.Is(err, repositories.ErrPurchaseOrderNotFound) {
		t.Errorf("Expected ErrPurchaseOrderNotFound, got %v", err)
	}
}

func TestStore_GetReceivedRecord(t *testing.T) {
	store := seedStore(t)

	record, err := store.GetReceivedRecord(context.Background(), "rcv-1")
	if err != nil {
		t.Fatalf("Failed to get received record: %v", err)
	}
	if record.Status != entities.Pending {
		t.Errorf("Expected status pending, got %s", record.Status)
	}

	record.VarianceData["notes"] = "scribble"
	again, _ := store.GetReceivedRecord(context.Background(), "rcv-1")
	if _, exists := again.VarianceData["notes"]; exists {
		t.Error("Expected variance data of stored record to be unaffected")
	}

	_, err = store.GetReceivedRecord(context.Background(), "missing")
	if !errors.Is(err, repositories.ErrReceivedRecordNotFound) {
		t.Errorf("Expected ErrReceivedRecordNotFound, got %v", err)
	}
}

func TestStore_ListPendingMatches(t *testing.T) {
	store := seedStore(t)

	unlinked, _ := entities.NewReceivedRecord("rcv-2", "Citrus Co", "INV-78", nil)
	if err := store.SaveReceivedRecord(unlinked); err != nil {
		t.Fatalf("Failed to save received record: %v", err)
	}

	pending, err := store.ListPendingMatches(context.Background())
	if err != nil {
		t.Fatalf("Failed to list pending matches: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending match, got %d", len(pending))
	}
	if pending[0].ReceivedRecordID != "rcv-1" || pending[0].PurchaseOrderID != "po-1" {
		t.Errorf("Unexpected pending match %+v", pending[0])
	}
}

func TestStore_SaveMatch(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	doc := entities.VarianceDocument{
		entities.DocumentKey:  map[string]any{"path": "x"},
		entities.MatchedPOKey: entities.PODescriptor{ID: "po-1", PONumber: "PO-0001"},
	}
	err := store.SaveMatch(ctx, repositories.MatchCommit{
		ReceivedRecordID: "rcv-1",
		PurchaseOrderID:  "po-1",
		VarianceData:     doc,
	})
	if err != nil {
		t.Fatalf("Failed to save match: %v", err)
	}

	record, _ := store.GetReceivedRecord(ctx, "rcv-1")
	if record.Status != entities.Matched {
		t.Errorf("Expected status matched, got %s", record.Status)
	}
	if _, exists := record.VarianceData[entities.MatchedPOKey]; !exists {
		t.Error("Expected matched_po to be stored")
	}

	po, _ := store.GetPurchaseOrder(ctx, "po-1")
	if po.Status != entities.Received {
		t.Errorf("Expected purchase order status received, got %s", po.Status)
	}

	pending, _ := store.ListPendingMatches(ctx)
	if len(pending) != 0 {
		t.Errorf("Expected no pending matches after save, got %d", len(pending))
	}
}

func TestStore_SaveMatch_UnknownPurchaseOrderChangesNothing(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	err := store.SaveMatch(ctx, repositories.MatchCommit{
		ReceivedRecordID: "rcv-1",
		PurchaseOrderID:  "po-404",
		VarianceData:     entities.VarianceDocument{entities.VarianceKey: "x"},
	})
	if !errors.Is(err, repositories.ErrPurchaseOrderNotFound) {
		t.Fatalf("Expected ErrPurchaseOrderNotFound, got %v", err)
	}

	record, _ := store.GetReceivedRecord(ctx, "rcv-1")
	if record.Status != entities.Pending {
		t.Errorf("Expected status pending, got %s", record.Status)
	}
	if _, exists := record.VarianceData[entities.VarianceKey]; exists {
		t.Error("Expected variance data to be unchanged")
	}
}

func TestStore_CancelledContext(t *testing.T) {
	store := seedStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.GetPurchaseOrder(ctx, "po-1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if err := store.SaveMatch(ctx, repositories.MatchCommit{ReceivedRecordID: "rcv-1", PurchaseOrderID: "po-1"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
