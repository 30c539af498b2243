package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPending, OrderStatusProcessing, false},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusReadyForPickup, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusReadyForPickup, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusReadyForPickup, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
				t.Fatalf("expected %v, got %v", tc.ok, got)
			}
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusReadyForPickup} {
		if s.Terminal() {
			t.Fatalf("did not expect %s to be terminal", s)
		}
		if !s.CanTransitionTo(OrderStatusCancelled) {
			t.Fatalf("expected %s to be cancellable", s)
		}
	}
	if OrderStatus("LOST").Valid() {
		t.Fatal("unknown status must not be valid")
	}
}

func TestSuccessorsReturnsCopy(t *testing.T) {
	next := OrderStatusPending.Successors()
	next[0] = OrderStatusDelivered
	if !OrderStatusPending.CanTransitionTo(OrderStatusConfirmed) {
		t.Fatal("mutating successors must not affect the workflow")
	}
}

func TestCentsRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("125.005")
	if got := Cents(amount); got != 12501 {
		t.Fatalf("expected 12501, got %d", got)
	}
	if !FromCents(12500).Equal(decimal.RequireFromString("125")) {
		t.Fatalf("unexpected amount %s", FromCents(12500))
	}
}

func TestVariantSnapshot(t *testing.T) {
	s := VariantSnapshot{
		Variant:       ProductVariant{Active: true, PriceDelta: decimal.RequireFromString("2.50")},
		BasePrice:     decimal.RequireFromString("10"),
		ProductActive: true,
	}
	if !s.UnitPrice().Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("unexpected unit price %s", s.UnitPrice())
	}
	if !s.Sellable() {
		t.Fatal("expected sellable")
	}
	s.ProductActive = false
	if s.Sellable() {
		t.Fatal("inactive product must not be sellable")
	}
}

func TestLineItemSubtotal(t *testing.T) {
	item := OrderLineItem{Quantity: 3, PriceAtPurchase: decimal.RequireFromString("40")}
	if !item.Subtotal().Equal(decimal.RequireFromString("120")) {
		t.Fatalf("unexpected subtotal %s", item.Subtotal())
	}
}

func TestEnumValidity(t *testing.T) {
	if !PaymentMethodCard.Valid() || PaymentMethod("BARTER").Valid() {
		t.Fatal("unexpected payment method validity")
	}
	if !PaymentMethodMobileMoney.RequiresProvider() || PaymentMethodCashOnDelivery.RequiresProvider() {
		t.Fatal("unexpected provider requirement")
	}
	if !DeliveryMethodPickup.Valid() || DeliveryMethod("DRONE").Valid() {
		t.Fatal("unexpected delivery method validity")
	}
	if InventoryChangeType("GIFT").Valid() || !InventoryChangeReturn.Valid() {
		t.Fatal("unexpected change type validity")
	}
	if PaymentStatusPending.Final() || !PaymentStatusFailed.Final() {
		t.Fatal("unexpected payment finality")
	}
}
