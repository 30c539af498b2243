package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

// LineRequest is one requested variant and quantity.
type LineRequest struct {
	VariantID int64
	Quantity  int
}

// ReservedLine is a validated line with the variant snapshot taken at validation time.
type ReservedLine struct {
	Snapshot model.VariantSnapshot
	Quantity int
}

// UnitPrice is the price snapshot charged for the line.
func (l ReservedLine) UnitPrice() decimal.Decimal {
	return l.Snapshot.UnitPrice()
}

// StockCheck is the outcome of a successful validation. Lines are sorted by variant id.
type StockCheck struct {
	Lines []ReservedLine
}

// Subtotal sums unit price times quantity over all lines.
func (c *StockCheck) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// StockValidator checks that every requested line can be served in full.
type StockValidator struct{}

// NewStockValidator constructs StockValidator.
func NewStockValidator() *StockValidator {
	return &StockValidator{}
}

// Validate loads all variants in one query and fails the whole request on the first unknown
// or inactive variant. Otherwise every short line is reported in one InsufficientStockError.
func (v *StockValidator) Validate(ctx context.Context, variants repository.VariantRepository, items []LineRequest) (*StockCheck, error) {
	merged, err := mergeLines(items)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(merged))
	for i, l := range merged {
		ids[i] = l.VariantID
	}
	snapshots, err := variants.Snapshots(ctx, ids)
	if err != nil {
		return nil, err
	}

	check := &StockCheck{Lines: make([]ReservedLine, 0, len(merged))}
	var shortages []model.StockShortage
	for _, l := range merged {
		snap, ok := snapshots[l.VariantID]
		if !ok {
			return nil, &domainErrors.VariantNotFoundError{VariantID: l.VariantID}
		}
		if !snap.Sellable() {
			return nil, &domainErrors.VariantInactiveError{VariantID: l.VariantID, SKU: snap.Variant.SKU}
		}
		if l.Quantity > snap.Variant.StockQuantity {
			shortages = append(shortages, model.StockShortage{
				VariantID: l.VariantID,
				SKU:       snap.Variant.SKU,
				Requested: l.Quantity,
				Available: snap.Variant.StockQuantity,
			})
			continue
		}
		check.Lines = append(check.Lines, ReservedLine{Snapshot: snap, Quantity: l.Quantity})
	}
	if len(shortages) > 0 {
		return nil, &domainErrors.InsufficientStockError{Shortages: shortages}
	}
	return check, nil
}

// mergeLines sums quantities of repeated variants and sorts the result by variant id,
// which is also the order stock rows are later written in.
func mergeLines(items []LineRequest) ([]LineRequest, error) {
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}
	totals := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		totals[item.VariantID] += item.Quantity
	}
	merged := make([]LineRequest, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, LineRequest{VariantID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].VariantID < merged[j].VariantID })
	return merged, nil
}
