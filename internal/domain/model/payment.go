package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod defines how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentMethodMobileMoney    PaymentMethod = "MOBILE_MONEY"
	PaymentMethodCard           PaymentMethod = "CARD"
)

// Valid reports whether the payment method is known.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCashOnDelivery, PaymentMethodMobileMoney, PaymentMethodCard:
		return true
	}
	return false
}

// RequiresProvider reports whether an external provider collects the payment.
func (m PaymentMethod) RequiresProvider() bool {
	return m == PaymentMethodMobileMoney || m == PaymentMethodCard
}

// PaymentStatus describes the state of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Final reports whether the provider will not change the status any more.
func (s PaymentStatus) Final() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// PaymentTransaction is one payment attempt tied to an order.
type PaymentTransaction struct {
	ID           int64
	OrderID      int64
	OrderNumber  string
	Amount       decimal.Decimal
	Method       PaymentMethod
	Provider     string
	Reference    *string
	Status       PaymentStatus
	Verification []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
	VerifiedAt   *time.Time
}

// PaymentVerification is the provider's answer for a payment reference.
type PaymentVerification struct {
	Reference string
	Status    PaymentStatus
	Payload   []byte
}
