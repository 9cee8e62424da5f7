package testing

import (
	"github.com/vsinha/receiving/pkg/domain/entities"
	"github.com/vsinha/receiving/pkg/infrastructure/repositories/memory"
)

// Identifiers used by BuildBarDeliveryTestData
const (
	BarPurchaseOrderID = "po-bar-001"
	BarReceivedID      = "rcv-bar-001"
	BarSupplier        = "Harbour Spirits"
	BarDocumentPath    = "invoices/2025/INV-4471.pdf"
)

// BarPurchaseOrderItems returns an order that, against BarReceivedItems,
// yields exactly one line of every variance status:
// vodka short, gin match, tonic water over, lime juice missing, olives extra.
func BarPurchaseOrderItems() []entities.PurchaseOrderLineItem {
	return []entities.PurchaseOrderLineItem{
		{ItemCode: entities.Code("VOD-700"), ItemName: "Vodka", Quantity: entities.Float(12), PricePerUnit: entities.Float(15), PriceTotal: entities.Float(180)},
		{ItemCode: entities.Code("GIN-700"), ItemName: "Gin", Quantity: entities.Float(6), PricePerUnit: entities.Float(18), PriceTotal: entities.Float(108)},
		{ItemCode: entities.Code("TON-200"), ItemName: "Tonic Water", Quantity: entities.Float(24), PricePerUnit: entities.Float(1.2), PriceTotal: entities.Float(28.8)},
		{ItemName: "Lime Juice", Quantity: entities.Float(4), PricePerUnit: entities.Float(5), PriceTotal: entities.Float(20)},
	}
}

// BarReceivedItems returns the delivery matching BarPurchaseOrderItems.
// Names differ in case and spacing, and tonic water arrives on two lines.
func BarReceivedItems() []entities.ReceivedLineItem {
	return []entities.ReceivedLineItem{
		{ItemName: "vodka ", Quantity: entities.Float(10), UnitPrice: entities.Float(15.5), TotalPrice: entities.Float(155)},
		{ItemName: "GIN", Quantity: entities.Float(6), UnitPrice: entities.Float(18), TotalPrice: entities.Float(108)},
		{ItemName: "Tonic  Water", Quantity: entities.Float(20), UnitPrice: entities.Float(1.1), TotalPrice: entities.Float(22)},
		{ItemName: "tonic water", Quantity: entities.Float(6), UnitPrice: entities.Float(1.3), TotalPrice: entities.Float(7.8)},
		{ItemName: "Olives", Quantity: entities.Float(3), UnitPrice: entities.Float(4), TotalPrice: entities.Float(12)},
	}
}

// BuildBarDeliveryTestData builds a store holding one purchase order and one
// pending received record that points at it. The record already carries an
// attached source document.
func BuildBarDeliveryTestData() *memory.Store {
	store := memory.NewStore()

	po, err := entities.NewPurchaseOrder(BarPurchaseOrderID, "PO-2025-0042", BarSupplier, BarPurchaseOrderItems())
	if err != nil {
		panic(err)
	}
	if err := store.SavePurchaseOrder(po); err != nil {
		panic(err)
	}

	record, err := entities.NewReceivedRecord(BarReceivedID, BarSupplier, "INV-4471", BarReceivedItems())
	if err != nil {
		panic(err)
	}
	record.MatchedPOID = BarPurchaseOrderID
	record.VarianceData = entities.VarianceDocument{
		entities.DocumentKey: map[string]any{"path": BarDocumentPath},
	}
	if err := store.SaveReceivedRecord(record); err != nil {
		panic(err)
	}

	return store
}

// BuildSimpleTestData creates a store with a single fully matched delivery
func BuildSimpleTestData() *memory.Store {
	store := memory.NewStore()

	po, err := entities.NewPurchaseOrder("po-simple", "PO-0001", "Test Supplier", []entities.PurchaseOrderLineItem{
		{ItemName: "Component A", Quantity: entities.Float(2), PricePerUnit: entities.Float(10)},
	})
	if err != nil {
		panic(err)
	}
	if err := store.SavePurchaseOrder(po); err != nil {
		panic(err)
	}

	record, err := entities.NewReceivedRecord("rcv-simple", "Test Supplier", "INV-0001", []entities.ReceivedLineItem{
		{ItemName: "component a", Quantity: entities.Float(2), UnitPrice: entities.Float(10)},
	})
	if err != nil {
		panic(err)
	}
	record.MatchedPOID = "po-simple"
	if err := store.SaveReceivedRecord(record); err != nil {
		panic(err)
	}

	return store
}
