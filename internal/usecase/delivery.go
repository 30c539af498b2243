package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
)

var (
	freeDeliveryThreshold = decimal.RequireFromString("100.00")
	outerZoneFee          = decimal.RequireFromString("15.00")
)

// zoneFees maps normalized zone names to their delivery fee.
var zoneFees = map[string]decimal.Decimal{
	"gombe":       decimal.RequireFromString("5.00"),
	"lingwala":    decimal.RequireFromString("5.00"),
	"barumbu":     decimal.RequireFromString("5.00"),
	"kinshasa":    decimal.RequireFromString("5.00"),
	"kintambo":    decimal.RequireFromString("6.00"),
	"bandalungwa": decimal.RequireFromString("6.00"),
	"kalamu":      decimal.RequireFromString("6.00"),
	"kasa-vubu":   decimal.RequireFromString("6.00"),
	"ngiri-ngiri": decimal.RequireFromString("6.00"),
	"ngaliema":    decimal.RequireFromString("7.00"),
	"limete":      decimal.RequireFromString("7.00"),
	"lemba":       decimal.RequireFromString("8.00"),
	"matete":      decimal.RequireFromString("8.00"),
	"ngaba":       decimal.RequireFromString("8.00"),
	"makala":      decimal.RequireFromString("8.00"),
	"selembao":    decimal.RequireFromString("8.00"),
	"masina":      decimal.RequireFromString("10.00"),
	"ndjili":      decimal.RequireFromString("10.00"),
	"kimbanseke":  decimal.RequireFromString("10.00"),
}

// DeliveryFeeCalculator prices home delivery by zone and order subtotal.
type DeliveryFeeCalculator struct {
	threshold decimal.Decimal
	outer     decimal.Decimal
	zones     map[string]decimal.Decimal
}

// NewDeliveryFeeCalculator constructs the calculator with the standard zone table.
func NewDeliveryFeeCalculator() *DeliveryFeeCalculator {
	return &DeliveryFeeCalculator{threshold: freeDeliveryThreshold, outer: outerZoneFee, zones: zoneFees}
}

// CalculateFee returns the fee for zone. Subtotals at or above the threshold ship free,
// unknown or missing zones pay the outer zone fee.
func (c *DeliveryFeeCalculator) CalculateFee(zone *string, subtotal decimal.Decimal) (model.DeliveryFee, error) {
	if subtotal.IsNegative() {
		return model.DeliveryFee{}, domainErrors.ErrNegativeSubtotal
	}
	if subtotal.GreaterThanOrEqual(c.threshold) {
		return model.DeliveryFee{Fee: decimal.Zero, IsFree: true, Threshold: c.threshold}, nil
	}

	fee := c.outer
	if zone != nil {
		if zoneFee, ok := c.zones[normalizeZone(*zone)]; ok {
			fee = zoneFee
		}
	}
	return model.DeliveryFee{Fee: fee, IsFree: false, Threshold: c.threshold}, nil
}

// PickupFee is the fee breakdown of a store pickup order.
func (c *DeliveryFeeCalculator) PickupFee() model.DeliveryFee {
	return model.DeliveryFee{Fee: decimal.Zero, IsFree: true, Threshold: c.threshold}
}

// Breakdown rebuilds the fee details of a persisted order.
func (c *DeliveryFeeCalculator) Breakdown(order *model.Order) model.DeliveryFee {
	return model.DeliveryFee{Fee: order.DeliveryFee, IsFree: order.DeliveryFee.IsZero(), Threshold: c.threshold}
}

func normalizeZone(zone string) string {
	return strings.ToLower(strings.TrimSpace(zone))
}
