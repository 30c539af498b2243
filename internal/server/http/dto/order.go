package dto

import "time"

// GuestRequest carries contact details of a guest buyer.
type GuestRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// OrderItemRequest is one requested variant.
type OrderItemRequest struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// DeliveryAddressRequest is the destination of a home delivery.
type DeliveryAddressRequest struct {
	FullAddress  string `json:"full_address"`
	Zone         string `json:"zone"`
	Instructions string `json:"instructions"`
}

// CreateOrderRequest describes order submission payload.
type CreateOrderRequest struct {
	CustomerID       *int64                  `json:"customer_id"`
	Guest            *GuestRequest           `json:"guest"`
	SaveCustomerInfo bool                    `json:"save_customer_info"`
	Items            []OrderItemRequest      `json:"items"`
	DeliveryMethod   string                  `json:"delivery_method"`
	DeliveryAddress  *DeliveryAddressRequest `json:"delivery_address"`
	PaymentMethod    string                  `json:"payment_method"`
	PaymentReference *string                 `json:"payment_reference"`
	Notes            *string                 `json:"notes"`
	Source           string                  `json:"source"`
}

// StatusRequest asks for a status change.
type StatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// LineItemResponse is one purchased line.
type LineItemResponse struct {
	VariantID   int64  `json:"variant_id"`
	ProductID   int64  `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	Subtotal    Money  `json:"subtotal"`
}

// DeliveryResponse describes delivery details and fee outcome.
type DeliveryResponse struct {
	Method       string  `json:"method"`
	Address      *string `json:"address,omitempty"`
	Zone         *string `json:"zone,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	Fee          Money   `json:"fee"`
	IsFree       bool    `json:"is_free"`
	Threshold    Money   `json:"free_threshold"`
}

// PaymentResponse describes the payment transaction of an order.
type PaymentResponse struct {
	Method    string     `json:"method"`
	Status    string     `json:"status"`
	Provider  string     `json:"provider,omitempty"`
	Reference *string    `json:"reference,omitempty"`
	Amount    Money      `json:"amount"`
	Verified  *time.Time `json:"verified_at,omitempty"`
}

// OrderResponse describes an order with its lines.
type OrderResponse struct {
	ID          int64              `json:"id"`
	Number      string             `json:"number"`
	CustomerID  int64              `json:"customer_id"`
	Status      string             `json:"status"`
	Source      string             `json:"source"`
	Items       []LineItemResponse `json:"items,omitempty"`
	Subtotal    Money              `json:"subtotal"`
	Total       Money              `json:"total"`
	Delivery    DeliveryResponse   `json:"delivery"`
	Payment     PaymentResponse    `json:"payment"`
	Notes       *string            `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// HistoryEntryResponse is one status transition.
type HistoryEntryResponse struct {
	From      *string   `json:"from"`
	To        string    `json:"to"`
	ActorID   *int64    `json:"actor_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Override  bool      `json:"override"`
	CreatedAt time.Time `json:"created_at"`
}
