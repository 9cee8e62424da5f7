package reconciliation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/receiving/pkg/domain/entities"
)

func TestMergeResult_PreservesUnrelatedKeys(t *testing.T) {
	existing := entities.VarianceDocument{
		entities.DocumentKey: map[string]any{"path": "x"},
		"notes":              "checked by bar manager",
	}
	po := entities.PODescriptor{ID: "po-1", PONumber: "PO-0001", SupplierName: "Harbour Spirits"}
	result := newTestReconciler().Reconcile(
		[]entities.PurchaseOrderLineItem{poLine("Gin", 5, 20)},
		[]entities.ReceivedLineItem{receivedLine("gin", 5, 20)},
	)

	merged := MergeResult(existing, po, result)

	document, ok := merged[entities.DocumentKey].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "x", document["path"])
	assert.Equal(t, "checked by bar manager", merged["notes"])
	assert.Equal(t, po, merged[entities.MatchedPOKey])
	assert.Equal(t, result, merged[entities.VarianceKey])
}

func TestMergeResult_ReplacesPreviousVariance(t *testing.T) {
	existing := entities.VarianceDocument{
		entities.MatchedPOKey: map[string]any{"id": "old"},
		entities.VarianceKey:  map[string]any{"summary": map[string]any{"matched": 99}},
	}
	po := entities.PODescriptor{ID: "po-2", PONumber: "PO-0002"}
	result := newTestReconciler().Reconcile(nil, nil)

	merged := MergeResult(existing, po, result)

	assert.Len(t, merged, 2)
	assert.Equal(t, po, merged[entities.MatchedPOKey])
	assert.Equal(t, result, merged[entities.VarianceKey])
}

func TestMergeResult_DoesNotModifyExisting(t *testing.T) {
	existing := entities.VarianceDocument{entities.DocumentKey: "receipts/2025/03/inv-77.pdf"}

	MergeResult(existing, entities.PODescriptor{ID: "po-3", PONumber: "PO-0003"}, newTestReconciler().Reconcile(nil, nil))

	assert.Len(t, existing, 1)
	assert.NotContains(t, existing, entities.VarianceKey)
}

func TestMergeResult_NilExisting(t *testing.T) {
	merged := MergeResult(nil, entities.PODescriptor{ID: "po-4", PONumber: "PO-0004"}, newTestReconciler().Reconcile(nil, nil))

	assert.Len(t, merged, 2)
	assert.Contains(t, merged, entities.MatchedPOKey)
	assert.Contains(t, merged, entities.VarianceKey)
}

func TestMergeResult_Idempotent(t *testing.T) {
	existing := entities.VarianceDocument{entities.DocumentKey: map[string]any{"path": "x"}}
	po := entities.PODescriptor{ID: "po-5", PONumber: "PO-0005"}
	items := []entities.PurchaseOrderLineItem{poLine("Gin", 5, 20)}
	received := []entities.ReceivedLineItem{receivedLine("gin", 4, 20)}

	once := MergeResult(existing, po, newTestReconciler().Reconcile(items, received))
	twice := MergeResult(once, po, newTestReconciler().Reconcile(items, received))

	onceJSON, err := json.Marshal(once)
	require.NoError(t, err)
	twiceJSON, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.JSONEq(t, string(onceJSON), string(twiceJSON))
}

func TestMergeResult_JSONShape(t *testing.T) {
	result := newTestReconciler().Reconcile(
		[]entities.PurchaseOrderLineItem{poLine("Gin", 5, 20)},
		[]entities.ReceivedLineItem{receivedLine("Tonic", 3, 1)},
	)
	merged := MergeResult(nil, entities.PODescriptor{ID: "po-6", PONumber: "PO-0006"}, result)

	data, err := json.Marshal(merged)
	require.NoError(t, err)

	var decoded struct {
		MatchedPO entities.PODescriptor `json:"matched_po"`
		Variance  struct {
			GeneratedAt string                   `json:"generated_at"`
			Summary     entities.VarianceSummary `json:"summary"`
			Items       []map[string]any         `json:"items"`
		} `json:"variance"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "PO-0006", decoded.MatchedPO.PONumber)
	assert.Equal(t, "2025-03-14T09:30:00Z", decoded.Variance.GeneratedAt)
	assert.Equal(t, entities.VarianceSummary{Missing: 1, Extra: 1}, decoded.Variance.Summary)
	require.Len(t, decoded.Variance.Items, 2)
	assert.Equal(t, "missing", decoded.Variance.Items[0]["status"])
	assert.Equal(t, -5.0, decoded.Variance.Items[0]["variance"])
	assert.Equal(t, "extra", decoded.Variance.Items[1]["status"])
	assert.Nil(t, decoded.Variance.Items[1]["ordered_price"])
	assert.Nil(t, decoded.Variance.Items[1]["item_code"])
}
