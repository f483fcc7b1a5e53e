package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountShipping   DiscountType = "shipping"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed || t == DiscountShipping
}

var (
	ErrVoucherNotFound    = errors.New("cupom não encontrado")
	ErrVoucherInactive    = errors.New("cupom inativo")
	ErrVoucherExpired     = errors.New("cupom expirado")
	ErrVoucherExhausted   = errors.New("cupom atingiu o limite de usos")
	ErrVoucherMinPurchase = errors.New("valor mínimo de compra não atingido")
)

type Voucher struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinPurchase   decimal.Decimal `json:"min_purchase"`
	MaxUses       int             `json:"max_uses"` // 0 = ilimitado
	CurrentUses   int             `json:"current_uses"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Eligible checks the voucher gates in order: active, expiry, usage ceiling, minimum purchase.
func (v *Voucher) Eligible(subtotal decimal.Decimal, now time.Time) error {
	if !v.Active {
		return ErrVoucherInactive
	}
	if v.ExpiresAt != nil && now.After(*v.ExpiresAt) {
		return ErrVoucherExpired
	}
	if v.MaxUses > 0 && v.CurrentUses >= v.MaxUses {
		return ErrVoucherExhausted
	}
	if subtotal.LessThan(v.MinPurchase) {
		return ErrVoucherMinPurchase
	}
	return nil
}

type VoucherRepositoryInterface interface {
	Create(ctx context.Context, v *Voucher) error
	Update(ctx context.Context, v *Voucher) error
	Delete(ctx context.Context, id string) error
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	List(ctx context.Context) ([]*Voucher, error)
	// IncrementUses só incrementa se current_uses < max_uses (ou max_uses = 0).
	IncrementUses(ctx context.Context, id string) error
	DecrementUses(ctx context.Context, id string) error
}
