// Package pricing computes cart, order and quotation totals.
//
// Every amount is a decimal rounded to centavos. The invariant kept by all
// functions here is Total = Subtotal - Discount + ShippingFee.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Adjustment is the effect of one discount on the price and on the freight.
type Adjustment struct {
	PriceDiscount    decimal.Decimal
	ShippingDiscount decimal.Decimal
	ShippingFee      decimal.Decimal
}

// Amount is the total discount reported to the customer.
func (a Adjustment) Amount() decimal.Decimal {
	return a.PriceDiscount.Add(a.ShippingDiscount)
}

// ApplyDiscount resolves a discount against a base amount and the current shipping fee.
//
// percentage: base * value / 100. A value of 100 or more discounts the shipping fee instead.
// fixed: min(base, value), never negative.
// shipping: zeroes the shipping fee, no price discount.
func ApplyDiscount(kind entity.DiscountType, value, base, shipping decimal.Decimal) Adjustment {
	adj := Adjustment{PriceDiscount: zero, ShippingDiscount: zero, ShippingFee: shipping}
	if value.IsNegative() || base.IsNegative() {
		return adj
	}

	switch kind {
	case entity.DiscountPercentage:
		if value.GreaterThanOrEqual(hundred) {
			adj.ShippingDiscount = shipping
			return adj
		}
		adj.PriceDiscount = Round(base.Mul(value).Div(hundred))
	case entity.DiscountFixed:
		adj.PriceDiscount = decimal.Min(base, value)
	case entity.DiscountShipping:
		adj.ShippingFee = zero
	}
	return adj
}

// Total = subtotal - discount + shipping.
func Total(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Sub(discount).Add(shipping))
}

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
