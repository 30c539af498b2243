package dto

// ShortageItem names a line that cannot be satisfied.
type ShortageItem struct {
	VariantID int64  `json:"variant_id"`
	SKU       string `json:"sku,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Items   []ShortageItem `json:"items,omitempty"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status string `json:"status"`
}
