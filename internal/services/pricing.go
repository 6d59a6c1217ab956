package services

import (
	"okeanmarket/internal/repos"

	"github.com/shopspring/decimal"
)

// EffectivePrice is the unit price actually charged: the discounted price if
// one is set, else the list price.
func EffectivePrice(price int64, discountPrice *int64) int64 {
	if discountPrice != nil && *discountPrice > 0 {
		return *discountPrice
	}
	return price
}

// FeePolicy decides the delivery fee for a cart subtotal. The app has shipped
// with two policies at different times, so the choice is configuration, not
// a constant.
type FeePolicy interface {
	Name() string
	Fee(subtotal decimal.Decimal) decimal.Decimal
}

// FlatFree charges no delivery fee ever.
type FlatFree struct{}

func (FlatFree) Name() string                        { return "flat-free" }
func (FlatFree) Fee(decimal.Decimal) decimal.Decimal { return decimal.Zero }

// ThresholdFee charges Fee below Threshold and nothing at or above it. An
// empty cart is also free.
type ThresholdFee struct {
	Threshold decimal.Decimal
	FeeAmount decimal.Decimal
}

func DefaultThresholdFee() ThresholdFee {
	return ThresholdFee{
		Threshold: decimal.NewFromInt(100000),
		FeeAmount: decimal.NewFromInt(15000),
	}
}

func (ThresholdFee) Name() string { return "threshold" }

func (p ThresholdFee) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.Sign() == 0 || subtotal.GreaterThanOrEqual(p.Threshold) {
		return decimal.Zero
	}
	return p.FeeAmount
}

// PolicyByName maps the DELIVERY_FEE_POLICY config value to a policy,
// defaulting to the threshold policy.
func PolicyByName(name string) FeePolicy {
	if name == "flat-free" {
		return FlatFree{}
	}
	return DefaultThresholdFee()
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
}

// ComputeCartTotals derives subtotal, fee and payable total from cart lines.
// All arithmetic is decimal; fractional quantities (0.5 kg) do not drift.
func ComputeCartTotals(lines []repos.CartLine, policy FeePolicy) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		unit := decimal.NewFromInt(EffectivePrice(l.Price, l.DiscountPrice))
		subtotal = subtotal.Add(unit.Mul(l.Qty))
	}
	fee := policy.Fee(subtotal)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		Count:       len(lines),
	}
}

// StepDown decreases a quantity by one step, clamped at a single step: the
// line never reaches zero through decrements, only explicit removal.
func StepDown(qty, step decimal.Decimal) decimal.Decimal {
	next := qty.Sub(step)
	if next.LessThan(step) {
		return step
	}
	return next
}
