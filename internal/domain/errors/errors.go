package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")

	ErrCustomerNotFound    = errors.New("customer not found")
	ErrMissingCustomerInfo = errors.New("customer id or guest contact details are required")
	ErrInvalidPhone        = errors.New("phone number does not match the regional format")
	ErrInvalidEmail        = errors.New("invalid email address")

	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be at least 1")
	ErrVariantNotFound   = errors.New("product variant not found")
	ErrVariantInactive   = errors.New("product variant is not available for sale")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrMissingDeliveryAddress = errors.New("delivery address is required for home delivery")
	ErrInvalidDeliveryMethod  = errors.New("invalid delivery method")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrNegativeSubtotal       = errors.New("subtotal must not be negative")

	ErrOrderNumberExhausted = errors.New("order number space exhausted")

	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrActorRequired     = errors.New("actor is required")

	ErrInvalidChangeType = errors.New("invalid inventory change type")
	ErrInvalidAmount     = errors.New("invalid amount")

	ErrTransactionAborted = errors.New("transaction aborted")
)

// VariantNotFoundError names the unknown variant.
type VariantNotFoundError struct {
	VariantID int64
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("product variant %d not found", e.VariantID)
}

func (e *VariantNotFoundError) Is(target error) bool {
	return target == ErrVariantNotFound
}

// VariantInactiveError names the variant that cannot be sold.
type VariantInactiveError struct {
	VariantID int64
	SKU       string
}

func (e *VariantInactiveError) Error() string {
	return fmt.Sprintf("product variant %d (%s) is not available for sale", e.VariantID, e.SKU)
}

func (e *VariantInactiveError) Is(target error) bool {
	return target == ErrVariantInactive
}

// InsufficientStockError lists every line that cannot be satisfied.
type InsufficientStockError struct {
	Shortages []model.StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("variant %d: requested %d, available %d", s.VariantID, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// TransitionError carries the rejected status change.
type TransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// AbortedError wraps an unexpected failure after the transaction was rolled back.
type AbortedError struct {
	Cause     error
	Retryable bool
}

func (e *AbortedError) Error() string {
	if e.Cause == nil {
		return ErrTransactionAborted.Error()
	}
	return ErrTransactionAborted.Error() + ": " + e.Cause.Error()
}

func (e *AbortedError) Is(target error) bool {
	return target == ErrTransactionAborted
}

func (e *AbortedError) Unwrap() error {
	return e.Cause
}

var codes = []struct {
	err  error
	code string
}{
	{ErrTransactionAborted, "TRANSACTION_ABORTED"},
	{ErrCustomerNotFound, "CUSTOMER_NOT_FOUND"},
	{ErrMissingCustomerInfo, "MISSING_CUSTOMER_INFO"},
	{ErrInvalidPhone, "INVALID_PHONE"},
	{ErrInvalidEmail, "INVALID_EMAIL"},
	{ErrEmptyOrder, "EMPTY_ORDER"},
	{ErrInvalidQuantity, "INVALID_QUANTITY"},
	{ErrVariantNotFound, "VARIANT_NOT_FOUND"},
	{ErrVariantInactive, "VARIANT_INACTIVE"},
	{ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{ErrMissingDeliveryAddress, "MISSING_DELIVERY_ADDRESS"},
	{ErrInvalidDeliveryMethod, "INVALID_DELIVERY_METHOD"},
	{ErrInvalidPaymentMethod, "INVALID_PAYMENT_METHOD"},
	{ErrNegativeSubtotal, "NEGATIVE_SUBTOTAL"},
	{ErrOrderNumberExhausted, "ORDER_NUMBER_EXHAUSTED"},
	{ErrInvalidStatus, "INVALID_STATUS"},
	{ErrInvalidTransition, "INVALID_TRANSITION"},
	{ErrActorRequired, "ACTOR_REQUIRED"},
	{ErrInvalidChangeType, "INVALID_CHANGE_TYPE"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrAlreadyExists, "ALREADY_EXISTS"},
}

// Code returns the machine-readable code of a domain error, or empty string.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// IsBusiness reports whether err is a business-rule failure rather than an infrastructure one.
func IsBusiness(err error) bool {
	code := Code(err)
	return code != "" && code != "TRANSACTION_ABORTED"
}

// IsRetryable reports whether the caller may safely retry the same request.
func IsRetryable(err error) bool {
	var aborted *AbortedError
	return errors.As(err, &aborted) && aborted.Retryable
}
