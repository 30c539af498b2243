package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money renders amounts with exactly two decimals as a JSON string.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(decimal.Decimal(m).StringFixed(2))
}
