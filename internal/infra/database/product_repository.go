package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/xavierca1/rog-store/internal/entity"
)

type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, slug, description, category, price, stock, weight_grams, image_url, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category, &p.Price, &p.Stock,
		&p.WeightGrams, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, category, price, stock, weight_grams, image_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.Name, p.Slug, p.Description, p.Category, p.Price,
		p.Stock, p.WeightGrams, p.ImageURL, p.Active, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("slug %q: %w", p.Slug, entity.ErrAlreadyExists)
	}
	return err
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, slug = $3, description = $4, category = $5, price = $6,
			stock = $7, weight_grams = $8, image_url = $9, active = $10, updated_at = NOW()
		WHERE id = $1
	`
	return expectOneRow(r.DB.ExecContext(ctx, query, p.ID, p.Name, p.Slug, p.Description, p.Category,
		p.Price, p.Stock, p.WeightGrams, p.ImageURL, p.Active))
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	return p, notFound(err)
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	return p, notFound(err)
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.ActiveOnly {
		where = append(where, "active = TRUE")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limitOrDefault(f.Limit), f.Offset)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) Deactivate(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `UPDATE products SET active = FALSE, updated_at = NOW() WHERE id = $1`, id))
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`, id, qty)
	if err := expectOneRow(res, err); err != nil {
		if err == entity.ErrNotFound {
			return entity.ErrOutOfStock
		}
		return err
	}
	return nil
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	return expectOneRow(r.DB.ExecContext(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1`, id, qty))
}

func collectProducts(rows *sql.Rows) ([]*entity.Product, error) {
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
