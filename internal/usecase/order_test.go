package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
)

func TestOrderQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.coordinator.CreateOrder(ctx, pickupRequest(f.customer, LineRequest{VariantID: f.tshirt, Quantity: 2}), f.owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := f.orders.Get(ctx, created.Order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(byID.Items) != 1 || byID.Transaction == nil || !byID.Delivery.IsFree {
		t.Fatalf("unexpected receipt: %+v", byID)
	}

	byNumber, err := f.orders.GetByNumber(ctx, created.Order.Number)
	if err != nil || byNumber.Order.ID != created.Order.ID {
		t.Fatalf("get by number: %+v err=%v", byNumber, err)
	}

	if _, _, err := f.status.Transition(ctx, created.Order.ID, model.OrderStatusConfirmed, nil, ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	history, err := f.orders.History(ctx, created.Order.ID)
	if err != nil || len(history) != 2 || history[1].ToStatus != model.OrderStatusConfirmed {
		t.Fatalf("unexpected history: %+v err=%v", history, err)
	}
}

func TestOrderQueriesNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.orders.Get(ctx, 1000); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.orders.GetByNumber(ctx, "ORD-19990101-0000"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.orders.History(ctx, 1000); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
