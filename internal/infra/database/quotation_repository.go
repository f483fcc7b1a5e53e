package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xavierca1/rog-store/internal/entity"
)

type QuotationRepository struct {
	DB *sql.DB
}

func NewQuotationRepository(db *sql.DB) *QuotationRepository {
	return &QuotationRepository{DB: db}
}

const quotationColumns = `id, customer_id, created_by, status, discount_type, discount_value, subtotal, discount,
	shipping_fee, total, notes, valid_until, order_id, created_at, updated_at`

func scanQuotation(row interface{ Scan(...any) error }) (*entity.Quotation, error) {
	var q entity.Quotation
	err := row.Scan(&q.ID, &q.CustomerID, &q.CreatedBy, &q.Status, &q.DiscountType, &q.DiscountValue, &q.Subtotal,
		&q.Discount, &q.ShippingFee, &q.Total, &q.Notes, &q.ValidUntil, &q.OrderID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) Create(ctx context.Context, q *entity.Quotation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quotations (`+quotationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		q.ID, q.CustomerID, q.CreatedBy, q.Status, q.DiscountType, q.DiscountValue, q.Subtotal, q.Discount,
		q.ShippingFee, q.Total, q.Notes, q.ValidUntil, q.OrderID, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao inserir orçamento: %w", err)
	}

	for i := range q.Items {
		item := &q.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.QuotationID = q.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO quotation_items (id, quotation_id, product_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, q.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity); err != nil {
			return fmt.Errorf("erro ao inserir item do orçamento: %w", err)
		}
	}
	return tx.Commit()
}

func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := scanQuotation(r.DB.QueryRowContext(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, quotation_id, product_id, name, unit_price, quantity
		FROM quotation_items WHERE quotation_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.ProductID, &it.Name, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, err
		}
		q.Items = append(q.Items, it)
	}
	return q, rows.Err()
}

func (r *QuotationRepository) List(ctx context.Context, customerID string) ([]*entity.Quotation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+quotationColumns+` FROM quotations
		WHERE ($1 = '' OR customer_id::text = $1) ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *QuotationRepository) UpdateStatus(ctx context.Context, id string, status entity.QuotationStatus, orderID string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `
		UPDATE quotations SET status = $2, order_id = COALESCE(NULLIF($3, ''), order_id), updated_at = NOW()
		WHERE id = $1`, id, status, orderID))
}

func (r *QuotationRepository) ChangeStatus(ctx context.Context, id string, from []entity.QuotationStatus, to entity.QuotationStatus) (bool, error) {
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE quotations SET status = $3, updated_at = NOW() WHERE id = $1 AND status = ANY($2)`,
		id, pq.Array(allowed), to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
