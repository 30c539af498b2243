package model

import "time"

// InventoryChangeType classifies an inventory log entry.
type InventoryChangeType string

const (
	InventoryChangeSale       InventoryChangeType = "SALE"
	InventoryChangeRestock    InventoryChangeType = "RESTOCK"
	InventoryChangeAdjustment InventoryChangeType = "ADJUSTMENT"
	InventoryChangeReturn     InventoryChangeType = "RETURN"
)

// Valid reports whether the change type is known.
func (t InventoryChangeType) Valid() bool {
	switch t {
	case InventoryChangeSale, InventoryChangeRestock, InventoryChangeAdjustment, InventoryChangeReturn:
		return true
	}
	return false
}

// InventoryLogEntry is an append-only audit record of one stock change.
type InventoryLogEntry struct {
	ID               int64
	VariantID        int64
	ChangeType       InventoryChangeType
	QuantityDelta    int
	PreviousQuantity int
	NewQuantity      int
	Reason           string
	ActorID          *int64
	OrderID          *int64
	CreatedAt        time.Time
}

// StockShortage describes a line that cannot be satisfied from current stock.
type StockShortage struct {
	VariantID int64
	SKU       string
	Requested int
	Available int
}
