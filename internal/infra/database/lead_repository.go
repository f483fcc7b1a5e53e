package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/rog-store/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert mantém um lead por email; campos vazios não sobrescrevem os já gravados.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (email, name, phone, source, message, updated_at)
		VALUES (LOWER($1), $2, $3, $4, $5, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(EXCLUDED.name, leads.name),
			phone = COALESCE(EXCLUDED.phone, leads.phone),
			source = COALESCE(EXCLUDED.source, leads.source),
			message = COALESCE(EXCLUDED.message, leads.message),
			updated_at = NOW()
		RETURNING id, created_at, updated_at, status
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.Source),
		nullString(lead.Message),
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lead.Status,
	)

	return err
}

const leadColumns = `id, email, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(source, ''), COALESCE(message, ''), status, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	var l entity.Lead
	if err := row.Scan(&l.ID, &l.Email, &l.Name, &l.Phone, &l.Source, &l.Message, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	return l, notFound(err)
}

// List filtra por status quando informado.
func (r *LeadRepository) List(ctx context.Context, status string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}
