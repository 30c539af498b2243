package dto

import "time"

// AdjustmentRequest describes a manual stock change.
type AdjustmentRequest struct {
	Delta   int    `json:"delta"`
	Type    string `json:"type"`
	Reason  string `json:"reason"`
	OrderID *int64 `json:"order_id"`
}

// InventoryLogResponse is one stock movement.
type InventoryLogResponse struct {
	ID               int64     `json:"id"`
	VariantID        int64     `json:"variant_id"`
	Type             string    `json:"type"`
	Delta            int       `json:"delta"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Reason           string    `json:"reason,omitempty"`
	ActorID          *int64    `json:"actor_id,omitempty"`
	OrderID          *int64    `json:"order_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
