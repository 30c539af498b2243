package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
)

func TestAdjustRestockAndReturn(t *testing.T) {
	f := newFixture(t)
	actor := int64(4)

	entry, err := f.inventory.Adjust(context.Background(), AdjustmentRequest{
		VariantID: f.cap, Delta: 5, Type: model.InventoryChangeRestock, Reason: "supplier delivery", ActorID: &actor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.PreviousQuantity != 1 || entry.NewQuantity != 6 || entry.ID == 0 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if f.store.Dump().Variants[f.cap].StockQuantity != 6 {
		t.Fatal("stock not updated")
	}
}

func TestAdjustValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		req  AdjustmentRequest
		want error
	}{
		{"sale reserved", AdjustmentRequest{VariantID: f.cap, Delta: -1, Type: model.InventoryChangeSale}, domainErrors.ErrInvalidChangeType},
		{"unknown type", AdjustmentRequest{VariantID: f.cap, Delta: 1, Type: "THEFT"}, domainErrors.ErrInvalidChangeType},
		{"negative restock", AdjustmentRequest{VariantID: f.cap, Delta: -1, Type: model.InventoryChangeRestock}, domainErrors.ErrInvalidQuantity},
		{"zero adjustment", AdjustmentRequest{VariantID: f.cap, Delta: 0, Type: model.InventoryChangeAdjustment}, domainErrors.ErrInvalidQuantity},
		{"below zero", AdjustmentRequest{VariantID: f.cap, Delta: -2, Type: model.InventoryChangeAdjustment}, domainErrors.ErrInsufficientStock},
		{"unknown variant", AdjustmentRequest{VariantID: 404, Delta: 1, Type: model.InventoryChangeRestock}, domainErrors.ErrVariantNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.inventory.Adjust(context.Background(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if dump := f.store.Dump(); len(dump.Logs) != 0 || dump.Variants[f.cap].StockQuantity != 1 {
		t.Fatalf("failed adjustments must not write: %+v", dump.Logs)
	}
}

func TestInventoryLogIsMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.coordinator.CreateOrder(ctx, pickupRequest(f.customer, LineRequest{VariantID: f.tshirt, Quantity: 2}), f.owner); err != nil {
			t.Fatalf("order %d: %v", i, err)
		}
	}
	if _, err := f.inventory.Adjust(ctx, AdjustmentRequest{VariantID: f.tshirt, Delta: 4, Type: model.InventoryChangeRestock}); err != nil {
		t.Fatalf("restock: %v", err)
	}
	if _, err := f.inventory.Adjust(ctx, AdjustmentRequest{VariantID: f.tshirt, Delta: -1, Type: model.InventoryChangeAdjustment, Reason: "damaged"}); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	log, err := f.inventory.Log(ctx, f.tshirt)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(log) != 5 {
		t.Fatalf("unexpected log length %d", len(log))
	}
	for i := 1; i < len(log); i++ {
		if log[i].PreviousQuantity != log[i-1].NewQuantity {
			t.Fatalf("log breaks at %d: %+v after %+v", i, log[i], log[i-1])
		}
	}
	if last := log[len(log)-1]; last.NewQuantity != 7 || f.store.Dump().Variants[f.tshirt].StockQuantity != 7 {
		t.Fatalf("unexpected final quantity %+v", last)
	}
}
