package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ShippingOption é uma cotação (PAC, SEDEX, transportadora).
type ShippingOption struct {
	ID           string          `json:"id"`
	Rate         decimal.Decimal `json:"rate"`
	DeliveryDays int             `json:"delivery_days"`
	ServiceType  string          `json:"service_type"`
	Name         string          `json:"name"`
	ZipCode      string          `json:"zipCode"`
}

// ShippingRate é uma faixa de CEP cadastrada no admin; sobrepõe a tabela padrão.
type ShippingRate struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ZipPrefixStart int             `json:"zip_prefix_start"`
	ZipPrefixEnd   int             `json:"zip_prefix_end"`
	PACRate        decimal.Decimal `json:"pac_rate"`
	SEDEXRate      decimal.Decimal `json:"sedex_rate"`
	PACDays        int             `json:"pac_days"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (r *ShippingRate) Covers(prefix int) bool {
	return r.Active && prefix >= r.ZipPrefixStart && prefix <= r.ZipPrefixEnd
}

type ShippingRateRepositoryInterface interface {
	Create(ctx context.Context, r *ShippingRate) error
	Update(ctx context.Context, r *ShippingRate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*ShippingRate, error)
}
