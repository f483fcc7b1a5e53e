package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/xavierca1/rog-store/internal/entity"
)

type AutomationRepository struct {
	DB *sql.DB
}

func NewAutomationRepository(db *sql.DB) *AutomationRepository {
	return &AutomationRepository{DB: db}
}

const flowColumns = `id, name, description, trigger, active, steps, created_at, updated_at`

func scanFlow(row interface{ Scan(...any) error }) (*entity.AutomationFlow, error) {
	var (
		f     entity.AutomationFlow
		steps []byte
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Trigger, &f.Active, &steps, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(steps, &f.Steps); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *AutomationRepository) Create(ctx context.Context, f *entity.AutomationFlow) error {
	steps, err := json.Marshal(f.Steps)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO automation_flows (`+flowColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.Name, f.Description, f.Trigger, f.Active, steps, f.CreatedAt, f.UpdatedAt)
	return err
}

func (r *AutomationRepository) Update(ctx context.Context, f *entity.AutomationFlow) error {
	steps, err := json.Marshal(f.Steps)
	if err != nil {
		return err
	}
	return expectOneRow(r.DB.ExecContext(ctx, `
		UPDATE automation_flows SET name = $2, description = $3, trigger = $4, active = $5, steps = $6, updated_at = NOW()
		WHERE id = $1`,
		f.ID, f.Name, f.Description, f.Trigger, f.Active, steps))
}

func (r *AutomationRepository) Delete(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `DELETE FROM automation_flows WHERE id = $1`, id))
}

func (r *AutomationRepository) FindByID(ctx context.Context, id string) (*entity.AutomationFlow, error) {
	f, err := scanFlow(r.DB.QueryRowContext(ctx, `SELECT `+flowColumns+` FROM automation_flows WHERE id = $1`, id))
	return f, notFound(err)
}

func (r *AutomationRepository) List(ctx context.Context) ([]*entity.AutomationFlow, error) {
	return r.query(ctx, `SELECT `+flowColumns+` FROM automation_flows ORDER BY name`)
}

func (r *AutomationRepository) ListActiveByTrigger(ctx context.Context, trigger string) ([]*entity.AutomationFlow, error) {
	return r.query(ctx, `SELECT `+flowColumns+` FROM automation_flows WHERE active AND trigger = $1 ORDER BY created_at`, trigger)
}

func (r *AutomationRepository) query(ctx context.Context, query string, args ...any) ([]*entity.AutomationFlow, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.AutomationFlow
	for rows.Next() {
		f, err := scanFlow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
