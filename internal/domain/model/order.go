package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:     {OrderStatusShipped, OrderStatusReadyForPickup, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusReadyForPickup: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      nil,
	OrderStatusCancelled:      nil,
}

// Valid reports whether the status is part of the workflow.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// Successors returns statuses reachable from s in one step.
func (s OrderStatus) Successors() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether to is an allowed successor of s.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderSource is the sales channel an order came from.
type OrderSource string

const (
	OrderSourceWeb   OrderSource = "WEB"
	OrderSourcePOS   OrderSource = "POS"
	OrderSourcePhone OrderSource = "PHONE"
)

// Order describes one purchase transaction.
type Order struct {
	ID                   int64
	Number               string
	CustomerID           int64
	Status               OrderStatus
	PaymentMethod        PaymentMethod
	PaymentStatus        PaymentStatus
	PaymentReference     *string
	DeliveryMethod       DeliveryMethod
	DeliveryAddress      *string
	DeliveryZone         *string
	DeliveryInstructions *string
	DeliveryFee          decimal.Decimal
	Subtotal             decimal.Decimal
	Total                decimal.Decimal
	Source               OrderSource
	Notes                *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompletedAt          *time.Time
}

// OrderLineItem is one purchased variant with its price and description snapshot.
type OrderLineItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	VariantID       int64
	Quantity        int
	PriceAtPurchase decimal.Decimal
	ProductName     string
	Size            string
	Color           string
	SKU             string
}

// Subtotal returns price multiplied by quantity.
func (i OrderLineItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistoryEntry is an append-only record of one status transition.
type OrderStatusHistoryEntry struct {
	ID         int64
	OrderID    int64
	FromStatus *OrderStatus
	ToStatus   OrderStatus
	ActorID    *int64
	Notes      string
	Override   bool
	CreatedAt  time.Time
}

// OrderReceipt is the composed result of a successful order creation or lookup.
type OrderReceipt struct {
	Order       Order
	Items       []OrderLineItem
	Transaction *PaymentTransaction
	Delivery    DeliveryFee
}
