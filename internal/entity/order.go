package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	Total           decimal.Decimal `json:"total"`
	VoucherCode     string          `json:"voucher_code,omitempty"`
	ConditionID     string          `json:"condition_id,omitempty"`
	ShippingService string          `json:"shipping_service"`
	ShippingDays    int             `json:"shipping_days"`
	Address         Address         `json:"address"`
	PaymentMethod   string          `json:"payment_method"`
	Installments    int             `json:"installments"`
	PaymentID       string          `json:"payment_id,omitempty"`
	PaymentURL      string          `json:"payment_url,omitempty"`
	QuotationID     string          `json:"quotation_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CanTransitionTo segue pending -> processing|cancelled, processing -> completed|cancelled.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	for _, s := range orderTransitions[o.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return nil
}

type OrderFilter struct {
	CustomerID string
	Status     OrderStatus
	Limit      int
	Offset     int
}

type OrderRepositoryInterface interface {
	Create(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*Order, error)
	// UpdateStatus move o pedido de from para to; false quando ele já não está em from.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus) (bool, error)
	UpdatePayment(ctx context.Context, id, paymentID, paymentURL string) error
	ExpirePending(ctx context.Context, olderThan time.Duration) ([]*Order, error)
}
