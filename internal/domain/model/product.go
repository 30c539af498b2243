package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable SKU of a product.
type ProductVariant struct {
	ID            int64
	ProductID     int64
	SKU           string
	Size          string
	Color         string
	StockQuantity int
	PriceDelta    decimal.Decimal
	Active        bool
	UpdatedAt     time.Time
}

// VariantSnapshot is a variant joined with the product fields a sale needs.
type VariantSnapshot struct {
	Variant       ProductVariant
	ProductName   string
	BasePrice     decimal.Decimal
	ProductActive bool
}

// UnitPrice returns base price plus the variant's price delta.
func (s VariantSnapshot) UnitPrice() decimal.Decimal {
	return s.BasePrice.Add(s.Variant.PriceDelta)
}

// Sellable reports whether both the variant and its product are active.
func (s VariantSnapshot) Sellable() bool {
	return s.Variant.Active && s.ProductActive
}

// StockChange captures stock before and after a single mutation.
type StockChange struct {
	VariantID int64
	Previous  int
	New       int
}
