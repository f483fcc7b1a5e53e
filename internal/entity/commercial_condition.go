package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CommercialCondition é um desconto automático (sem cupom) por produto, categoria ou forma de pagamento.
// Listas vazias significam "qualquer".
type CommercialCondition struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Active         bool            `json:"active"`
	ProductIDs     []string        `json:"product_ids"`
	Categories     []string        `json:"categories"`
	PaymentMethods []string        `json:"payment_methods"`
	MinQuantity    int             `json:"min_quantity"`
	DiscountType   DiscountType    `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	FreeShipping   bool            `json:"free_shipping"`
	Priority       int             `json:"priority"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (c *CommercialCondition) MatchesItem(item CartItem) bool {
	if len(c.ProductIDs) > 0 && !contains(c.ProductIDs, item.ProductID) {
		return false
	}
	if len(c.Categories) > 0 && !contains(c.Categories, item.Category) {
		return false
	}
	return true
}

func (c *CommercialCondition) MatchesPayment(method string) bool {
	return len(c.PaymentMethods) == 0 || contains(c.PaymentMethods, method)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type CommercialConditionRepositoryInterface interface {
	Create(ctx context.Context, c *CommercialCondition) error
	Update(ctx context.Context, c *CommercialCondition) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*CommercialCondition, error)
	List(ctx context.Context, activeOnly bool) ([]*CommercialCondition, error)
}
