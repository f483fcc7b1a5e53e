package database

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/xavierca1/rog-store/internal/entity"
)

type CommercialConditionRepository struct {
	DB *sql.DB
}

func NewCommercialConditionRepository(db *sql.DB) *CommercialConditionRepository {
	return &CommercialConditionRepository{DB: db}
}

const conditionColumns = `id, name, active, product_ids, categories, payment_methods, min_quantity,
	discount_type, discount_value, free_shipping, priority, created_at, updated_at`

func scanCondition(row interface{ Scan(...any) error }) (*entity.CommercialCondition, error) {
	var c entity.CommercialCondition
	err := row.Scan(&c.ID, &c.Name, &c.Active, pq.Array(&c.ProductIDs), pq.Array(&c.Categories),
		pq.Array(&c.PaymentMethods), &c.MinQuantity, &c.DiscountType, &c.DiscountValue, &c.FreeShipping,
		&c.Priority, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommercialConditionRepository) Create(ctx context.Context, c *entity.CommercialCondition) error {
	query := `
		INSERT INTO commercial_conditions (id, name, active, product_ids, categories, payment_methods, min_quantity,
			discount_type, discount_value, free_shipping, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Active, pq.Array(c.ProductIDs), pq.Array(c.Categories),
		pq.Array(c.PaymentMethods), c.MinQuantity, c.DiscountType, c.DiscountValue, c.FreeShipping, c.Priority,
		c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CommercialConditionRepository) Update(ctx context.Context, c *entity.CommercialCondition) error {
	query := `
		UPDATE commercial_conditions SET name = $2, active = $3, product_ids = $4, categories = $5,
			payment_methods = $6, min_quantity = $7, discount_type = $8, discount_value = $9,
			free_shipping = $10, priority = $11, updated_at = NOW()
		WHERE id = $1
	`
	return expectOneRow(r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Active, pq.Array(c.ProductIDs),
		pq.Array(c.Categories), pq.Array(c.PaymentMethods), c.MinQuantity, c.DiscountType, c.DiscountValue,
		c.FreeShipping, c.Priority))
}

func (r *CommercialConditionRepository) Delete(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `DELETE FROM commercial_conditions WHERE id = $1`, id))
}

func (r *CommercialConditionRepository) FindByID(ctx context.Context, id string) (*entity.CommercialCondition, error) {
	c, err := scanCondition(r.DB.QueryRowContext(ctx, `SELECT `+conditionColumns+` FROM commercial_conditions WHERE id = $1`, id))
	return c, notFound(err)
}

func (r *CommercialConditionRepository) List(ctx context.Context, activeOnly bool) ([]*entity.CommercialCondition, error) {
	query := `SELECT ` + conditionColumns + ` FROM commercial_conditions WHERE (NOT $1 OR active) ORDER BY priority DESC, name`
	rows, err := r.DB.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.CommercialCondition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
