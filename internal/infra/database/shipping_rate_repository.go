package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/rog-store/internal/entity"
)

type ShippingRateRepository struct {
	DB *sql.DB
}

func NewShippingRateRepository(db *sql.DB) *ShippingRateRepository {
	return &ShippingRateRepository{DB: db}
}

func (r *ShippingRateRepository) Create(ctx context.Context, s *entity.ShippingRate) error {
	query := `
		INSERT INTO shipping_rates (id, name, zip_prefix_start, zip_prefix_end, pac_rate, sedex_rate, pac_days, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.Name, s.ZipPrefixStart, s.ZipPrefixEnd, s.PACRate, s.SEDEXRate,
		s.PACDays, s.Active, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ShippingRateRepository) Update(ctx context.Context, s *entity.ShippingRate) error {
	query := `
		UPDATE shipping_rates SET name = $2, zip_prefix_start = $3, zip_prefix_end = $4, pac_rate = $5,
			sedex_rate = $6, pac_days = $7, active = $8, updated_at = NOW()
		WHERE id = $1
	`
	return expectOneRow(r.DB.ExecContext(ctx, query, s.ID, s.Name, s.ZipPrefixStart, s.ZipPrefixEnd, s.PACRate,
		s.SEDEXRate, s.PACDays, s.Active))
}

func (r *ShippingRateRepository) Delete(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `DELETE FROM shipping_rates WHERE id = $1`, id))
}

// List devolve as faixas ordenadas pelo início; a primeira que cobre o prefixo vence.
func (r *ShippingRateRepository) List(ctx context.Context) ([]*entity.ShippingRate, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, zip_prefix_start, zip_prefix_end, pac_rate, sedex_rate, pac_days, active, created_at, updated_at
		FROM shipping_rates ORDER BY zip_prefix_start, zip_prefix_end`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.ShippingRate
	for rows.Next() {
		var s entity.ShippingRate
		if err := rows.Scan(&s.ID, &s.Name, &s.ZipPrefixStart, &s.ZipPrefixEnd, &s.PACRate, &s.SEDEXRate,
			&s.PACDays, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
