package entity

import "github.com/shopspring/decimal"

// CartItem vive no cliente; o servidor só recebe para precificar e fechar o pedido.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name,omitempty"`
	Category    string          `json:"category,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	WeightGrams int             `json:"weight_grams,omitempty"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
