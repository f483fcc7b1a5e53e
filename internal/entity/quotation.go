package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationDraft     QuotationStatus = "draft"
	QuotationSent      QuotationStatus = "sent"
	QuotationAccepted  QuotationStatus = "accepted"
	QuotationRejected  QuotationStatus = "rejected"
	QuotationConverted QuotationStatus = "converted"
)

func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected, QuotationConverted:
		return true
	}
	return false
}

// Quotation é um orçamento montado pela equipe comercial para um cliente.
type Quotation struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	CreatedBy     string          `json:"created_by"`
	Status        QuotationStatus `json:"status"`
	Items         []QuotationItem `json:"items"`
	DiscountType  DiscountType    `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes,omitempty"`
	ValidUntil    time.Time       `json:"valid_until"`
	OrderID       string          `json:"order_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type QuotationItem struct {
	ID          string          `json:"id"`
	QuotationID string          `json:"quotation_id"`
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

type QuotationRepositoryInterface interface {
	Create(ctx context.Context, q *Quotation) error
	FindByID(ctx context.Context, id string) (*Quotation, error)
	List(ctx context.Context, customerID string) ([]*Quotation, error)
	UpdateStatus(ctx context.Context, id string, status QuotationStatus, orderID string) error
	// ChangeStatus só grava quando o status atual está em from.
	ChangeStatus(ctx context.Context, id string, from []QuotationStatus, to QuotationStatus) (bool, error)
}
