package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
)

// BestCondition picks the single commercial condition that saves the most.
// Ties go to the higher Priority.
func BestCondition(conds []*entity.CommercialCondition, items []entity.CartItem, paymentMethod string, shipping decimal.Decimal) (*entity.CommercialCondition, Adjustment, bool) {
	var (
		best     *entity.CommercialCondition
		bestAdj  Adjustment
		bestGain = decimal.NewFromInt(-1)
	)

	for _, c := range conds {
		if c == nil || !c.Active || !c.MatchesPayment(paymentMethod) {
			continue
		}

		matched := zero
		qty := 0
		for _, it := range items {
			if it.Quantity > 0 && c.MatchesItem(it) {
				matched = matched.Add(it.LineTotal())
				qty += it.Quantity
			}
		}
		if qty == 0 || qty < c.MinQuantity {
			continue
		}

		adj := Adjustment{PriceDiscount: zero, ShippingDiscount: zero, ShippingFee: shipping}
		if c.DiscountType.Valid() {
			adj = ApplyDiscount(c.DiscountType, c.DiscountValue, matched, shipping)
		}
		if c.FreeShipping {
			adj.ShippingFee = zero
			adj.ShippingDiscount = zero
		}

		gain := adj.Amount().Add(shipping.Sub(adj.ShippingFee))
		if gain.GreaterThan(bestGain) || (gain.Equal(bestGain) && best != nil && c.Priority > best.Priority) {
			best, bestAdj, bestGain = c, adj, gain
		}
	}

	if best == nil || !bestGain.IsPositive() {
		return nil, Adjustment{}, false
	}
	return best, bestAdj, true
}
