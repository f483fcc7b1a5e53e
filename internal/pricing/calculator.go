package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
)

type Input struct {
	Items         []entity.CartItem
	ShippingFee   decimal.Decimal
	PaymentMethod string
	Voucher       *entity.Voucher
	Conditions    []*entity.CommercialCondition
	Now           time.Time
}

type Breakdown struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ConditionDiscount decimal.Decimal `json:"condition_discount"`
	VoucherDiscount   decimal.Decimal `json:"voucher_discount"`
	Discount          decimal.Decimal `json:"discount"`
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	Total             decimal.Decimal `json:"total"`
	FreeShipping      bool            `json:"free_shipping"`
	ConditionID       string          `json:"condition_id,omitempty"`
	ConditionName     string          `json:"condition_name,omitempty"`
	VoucherCode       string          `json:"voucher_code,omitempty"`
	VoucherApplied    bool            `json:"voucher_applied"`
	VoucherRejection  string          `json:"voucher_rejection,omitempty"`
}

func Subtotal(items []entity.CartItem) decimal.Decimal {
	sum := zero
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		sum = sum.Add(it.LineTotal())
	}
	return Round(sum)
}

// Calculate applies the best commercial condition, then the voucher, and returns the totals.
// A voucher that fails a gate is not applied; the reason is reported in VoucherRejection.
func Calculate(in Input) Breakdown {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	shipping := in.ShippingFee
	if shipping.IsNegative() {
		shipping = zero
	}

	b := Breakdown{
		Subtotal:          Subtotal(in.Items),
		ConditionDiscount: zero,
		VoucherDiscount:   zero,
		ShippingFee:       shipping,
	}

	priceDiscount := zero
	shippingDiscount := zero

	if cond, adj, ok := BestCondition(in.Conditions, in.Items, in.PaymentMethod, b.ShippingFee); ok {
		b.ConditionID = cond.ID
		b.ConditionName = cond.Name
		b.ConditionDiscount = adj.Amount()
		priceDiscount = priceDiscount.Add(adj.PriceDiscount)
		shippingDiscount = shippingDiscount.Add(adj.ShippingDiscount)
		b.ShippingFee = adj.ShippingFee
	}

	if v := in.Voucher; v != nil {
		b.VoucherCode = v.Code
		if err := v.Eligible(b.Subtotal, now); err != nil {
			b.VoucherRejection = RejectionReason(err)
		} else {
			remaining := decimal.Max(zero, b.Subtotal.Sub(priceDiscount))
			adj := ApplyDiscount(v.DiscountType, v.DiscountValue, remaining, b.ShippingFee.Sub(shippingDiscount))
			b.VoucherApplied = true
			b.VoucherDiscount = adj.Amount()
			priceDiscount = priceDiscount.Add(adj.PriceDiscount)
			shippingDiscount = shippingDiscount.Add(adj.ShippingDiscount)
			if adj.ShippingFee.IsZero() && v.DiscountType == entity.DiscountShipping {
				b.ShippingFee = zero
				shippingDiscount = zero
			}
		}
	}

	priceDiscount = decimal.Min(priceDiscount, b.Subtotal)
	shippingDiscount = decimal.Min(shippingDiscount, b.ShippingFee)
	b.Discount = Round(priceDiscount.Add(shippingDiscount))
	b.FreeShipping = b.ShippingFee.IsZero() || shippingDiscount.Equal(b.ShippingFee)
	b.Total = Total(b.Subtotal, b.Discount, b.ShippingFee)
	return b
}

// Quote computes a quotation with a manual discount and a fixed freight.
func Quote(items []entity.CartItem, kind entity.DiscountType, value, shipping decimal.Decimal) Breakdown {
	b := Breakdown{
		Subtotal:          Subtotal(items),
		ConditionDiscount: zero,
		VoucherDiscount:   zero,
		Discount:          zero,
		ShippingFee:       shipping,
	}
	if kind.Valid() {
		adj := ApplyDiscount(kind, value, b.Subtotal, shipping)
		b.Discount = adj.Amount()
		b.ShippingFee = adj.ShippingFee
	}
	b.FreeShipping = b.ShippingFee.IsZero()
	b.Total = Total(b.Subtotal, b.Discount, b.ShippingFee)
	return b
}

func RejectionReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrVoucherInactive):
		return "inactive"
	case errors.Is(err, entity.ErrVoucherExpired):
		return "expired"
	case errors.Is(err, entity.ErrVoucherExhausted):
		return "exhausted"
	case errors.Is(err, entity.ErrVoucherMinPurchase):
		return "min_purchase"
	case errors.Is(err, entity.ErrVoucherNotFound):
		return "not_found"
	}
	return "invalid"
}
