package model

import "github.com/shopspring/decimal"

// Cents converts an amount to integer minor units, rounding half away from zero.
func Cents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// FromCents builds an amount from integer minor units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
