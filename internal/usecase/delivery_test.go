package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
)

func TestCalculateFeeZones(t *testing.T) {
	calc := NewDeliveryFeeCalculator()
	cases := []struct {
		name string
		zone *string
		want string
	}{
		{"known zone", strPtr("Gombe"), "5.00"},
		{"trimmed and case-insensitive", strPtr("  LIMETE "), "7.00"},
		{"hyphenated zone", strPtr("kasa-vubu"), "6.00"},
		{"outer ring", strPtr("kimbanseke"), "10.00"},
		{"unknown zone", strPtr("maluku"), "15.00"},
		{"missing zone", nil, "15.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee, err := calc.CalculateFee(tc.zone, decimal.RequireFromString("40.00"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fee.Fee.StringFixed(2) != tc.want || fee.IsFree {
				t.Fatalf("unexpected fee: %+v", fee)
			}
			if fee.Threshold.StringFixed(2) != "100.00" {
				t.Fatalf("unexpected threshold %s", fee.Threshold)
			}
		})
	}
}

func TestCalculateFeeBelowThresholdScenarioB(t *testing.T) {
	calc := NewDeliveryFeeCalculator()
	subtotal := decimal.RequireFromString("120.00")

	fee, err := calc.CalculateFee(strPtr("Gombe"), decimal.RequireFromString("99.99"))
	if err != nil || fee.IsFree || fee.Fee.StringFixed(2) != "5.00" {
		t.Fatalf("unexpected fee just below threshold: %+v err=%v", fee, err)
	}

	fee, err = calc.CalculateFee(strPtr("Gombe"), subtotal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fee.IsFree {
		t.Fatalf("120.00 is above the threshold and must ship free, got %+v", fee)
	}
}

func TestCalculateFeeFreeAboveThresholdScenarioC(t *testing.T) {
	calc := NewDeliveryFeeCalculator()
	for _, zone := range []*string{strPtr("gombe"), strPtr("nowhere"), nil} {
		fee, err := calc.CalculateFee(zone, decimal.RequireFromString("150.00"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !fee.IsFree || !fee.Fee.IsZero() {
			t.Fatalf("expected free delivery, got %+v", fee)
		}
	}

	fee, _ := calc.CalculateFee(nil, decimal.RequireFromString("100.00"))
	if !fee.IsFree {
		t.Fatalf("threshold itself must be free, got %+v", fee)
	}
}

func TestCalculateFeeRejectsNegativeSubtotal(t *testing.T) {
	calc := NewDeliveryFeeCalculator()
	if _, err := calc.CalculateFee(nil, decimal.RequireFromString("-0.01")); !errors.Is(err, domainErrors.ErrNegativeSubtotal) {
		t.Fatalf("expected negative subtotal error, got %v", err)
	}
}

func TestPickupFee(t *testing.T) {
	fee := NewDeliveryFeeCalculator().PickupFee()
	if !fee.IsFree || !fee.Fee.IsZero() {
		t.Fatalf("unexpected pickup fee: %+v", fee)
	}
}
