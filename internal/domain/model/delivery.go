package model

import "github.com/shopspring/decimal"

// DeliveryMethod defines how an order reaches the customer.
type DeliveryMethod string

const (
	DeliveryMethodHome   DeliveryMethod = "HOME_DELIVERY"
	DeliveryMethodPickup DeliveryMethod = "STORE_PICKUP"
)

// Valid reports whether the delivery method is known.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryMethodHome || m == DeliveryMethodPickup
}

// DeliveryAddress is the destination of a home delivery.
type DeliveryAddress struct {
	FullAddress  string
	Zone         string
	Instructions string
}

// DeliveryFee is the outcome of fee calculation for an order.
type DeliveryFee struct {
	Fee       decimal.Decimal
	IsFree    bool
	Threshold decimal.Decimal
}
