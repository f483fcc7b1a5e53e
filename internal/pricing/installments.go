package pricing

import "github.com/shopspring/decimal"

type Installment struct {
	Number int             `json:"number"`
	Value  decimal.Decimal `json:"value"`
	Total  decimal.Decimal `json:"total"`
}

// Installments lists 1..max parcels of total/number, without interest.
func Installments(total decimal.Decimal, max int) []Installment {
	if max < 1 {
		max = 1
	}
	out := make([]Installment, 0, max)
	for n := 1; n <= max; n++ {
		out = append(out, Installment{
			Number: n,
			Value:  total.DivRound(decimal.NewFromInt(int64(n)), 2),
			Total:  total,
		})
	}
	return out
}
