package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/rog-store/internal/entity"
)

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, customer_id, status, subtotal, discount, shipping_fee, total, voucher_code, condition_id,
	shipping_service, shipping_days, COALESCE(street, ''), COALESCE(number, ''), COALESCE(complement, ''),
	COALESCE(district, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip_code, ''),
	payment_method, installments, payment_id, payment_url, quotation_id, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Subtotal, &o.Discount, &o.ShippingFee, &o.Total,
		&o.VoucherCode, &o.ConditionID, &o.ShippingService, &o.ShippingDays,
		&o.Address.Street, &o.Address.Number, &o.Address.Complement, &o.Address.District,
		&o.Address.City, &o.Address.State, &o.Address.ZipCode,
		&o.PaymentMethod, &o.Installments, &o.PaymentID, &o.PaymentURL, &o.QuotationID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create grava o pedido e os itens na mesma transação.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, customer_id, status, subtotal, discount, shipping_fee, total, voucher_code, condition_id,
			shipping_service, shipping_days, street, number, complement, district, city, state, zip_code,
			payment_method, installments, quotation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err = tx.ExecContext(ctx, orderQuery,
		o.ID, o.CustomerID, o.Status, o.Subtotal, o.Discount, o.ShippingFee, o.Total, o.VoucherCode, o.ConditionID,
		o.ShippingService, o.ShippingDays, o.Address.Street, o.Address.Number, o.Address.Complement,
		o.Address.District, o.Address.City, o.Address.State, o.Address.ZipCode,
		o.PaymentMethod, o.Installments, o.QuotationID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao inserir pedido: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = o.ID
		if _, err := tx.ExecContext(ctx, itemQuery, item.ID, o.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity); err != nil {
			return fmt.Errorf("erro ao inserir item %s: %w", item.ProductID, err)
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id))
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	items, err := r.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, order_id, product_id, name, unit_price, quantity FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List não carrega itens; use FindByID para o detalhe.
func (r *OrderRepository) List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE ($1 = '' OR customer_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctx, query, f.CustomerID, string(f.Status), limitOrDefault(f.Limit), f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus só grava se o status no banco ainda for from, para que webhooks, admin e a expiração
// não cancelem (e reponham estoque) duas vezes o mesmo pedido.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *OrderRepository) UpdatePayment(ctx context.Context, id, paymentID, paymentURL string) error {
	return expectOneRow(r.DB.ExecContext(ctx,
		`UPDATE orders SET payment_id = $2, payment_url = $3, updated_at = NOW() WHERE id = $1`, id, paymentID, paymentURL))
}

// ExpirePending cancela pedidos pendentes mais antigos que olderThan e devolve os afetados (com itens),
// para que o chamador reponha estoque e usos de cupom.
func (r *OrderRepository) ExpirePending(ctx context.Context, olderThan time.Duration) ([]*entity.Order, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `UPDATE orders SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
		RETURNING ` + orderColumns

	rows, err := r.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	var expired []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		expired = append(expired, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range expired {
		if o.Items, err = r.items(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return expired, nil
}
