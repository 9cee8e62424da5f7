package main

import (
	"encoding/json"
	"fmt"

	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/domain/services/reconciliation"
)

func main() {
	// Order placed with the supplier
	po, err := entities.NewPurchaseOrder("po-0042", "PO-2025-0042", "Harbour Spirits", []entities.PurchaseOrderLineItem{
		{ItemCode: entities.Code("VOD-700"), ItemName: "Vodka", Quantity: entities.Float(12), PricePerUnit: entities.Float(15)},
		{ItemCode: entities.Code("GIN-700"), ItemName: "Gin", Quantity: entities.Float(6), PricePerUnit: entities.Float(18)},
		{ItemCode: entities.Code("TON-200"), ItemName: "Tonic Water", Quantity: entities.Float(24), PricePerUnit: entities.Float(1.2)},
		{ItemName: "Lime Juice", Quantity: entities.Float(4), PricePerUnit: entities.Float(5)},
	})
	if err != nil {
		panic(err)
	}

	// What actually arrived, as read off the delivery note
	delivery := []entities.ReceivedLineItem{
		{ItemName: "vodka ", Quantity: entities.Float(10), UnitPrice: entities.Float(15.5)},
		{ItemName: "GIN", Quantity: entities.Float(6), UnitPrice: entities.Float(18)},
		{ItemName: "Tonic  Water", Quantity: entities.Float(20), UnitPrice: entities.Float(1.1)},
		{ItemName: "tonic water", Quantity: entities.Float(6), UnitPrice: entities.Float(1.3)},
		{ItemName: "Olives", Quantity: entities.Float(3), UnitPrice: entities.Float(4)},
	}

	reconciler := reconciliation.NewReconciler()
	result := reconciler.Reconcile(po.Items, delivery)

	fmt.Printf("📊 Variance for %s\n", po.PONumber)
	fmt.Printf("%-14s %8s %8s %8s  %s\n", "Item", "Ordered", "Received", "Variance", "Status")
	for _, line := range result.Items {
		fmt.Printf("%-14s %8.2f %8.2f %+8.2f  %s\n",
			line.ItemName, line.OrderedQty, line.ReceivedQty, line.Variance, line.Status)
	}
	fmt.Printf("\nMatched: %d, Short: %d, Over: %d, Missing: %d, Extra: %d\n\n",
		result.Summary.Matched, result.Summary.Short, result.Summary.Over,
		result.Summary.Missing, result.Summary.Extra)

	// Merge into the document already stored on the received record
	existing := entities.VarianceDocument{
		entities.DocumentKey: map[string]any{"path": "invoices/2025/INV-4471.pdf"},
	}
	document := reconciliation.MergeResult(existing, po.Descriptor(), result)

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
}
