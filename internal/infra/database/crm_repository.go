package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/rog-store/internal/entity"
)

type CRMRepository struct {
	DB *sql.DB
}

func NewCRMRepository(db *sql.DB) *CRMRepository {
	return &CRMRepository{DB: db}
}

func (r *CRMRepository) CreatePipeline(ctx context.Context, p *entity.Pipeline) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO crm_pipelines (id, name, created_at) VALUES ($1, $2, $3)`,
		p.ID, p.Name, p.CreatedAt)
	return err
}

func (r *CRMRepository) ListPipelines(ctx context.Context) ([]*entity.Pipeline, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, created_at FROM crm_pipelines ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Pipeline
	for rows.Next() {
		var p entity.Pipeline
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *CRMRepository) FindPipeline(ctx context.Context, id string) (*entity.Pipeline, error) {
	var p entity.Pipeline
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, created_at FROM crm_pipelines WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if p.Stages, err = r.ListStages(ctx, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CRMRepository) CreateStage(ctx context.Context, s *entity.Stage) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO crm_stages (id, pipeline_id, name, position, color) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.PipelineID, s.Name, s.Position, s.Color)
	return err
}

func (r *CRMRepository) ListStages(ctx context.Context, pipelineID string) ([]entity.Stage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, pipeline_id, name, position, color FROM crm_stages WHERE pipeline_id = $1 ORDER BY position`, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Stage
	for rows.Next() {
		var s entity.Stage
		if err := rows.Scan(&s.ID, &s.PipelineID, &s.Name, &s.Position, &s.Color); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CRMRepository) FindStage(ctx context.Context, id string) (*entity.Stage, error) {
	var s entity.Stage
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, pipeline_id, name, position, color FROM crm_stages WHERE id = $1`, id).
		Scan(&s.ID, &s.PipelineID, &s.Name, &s.Position, &s.Color)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

const contactColumns = `id, pipeline_id, stage_id, name, email, phone, company, value, notes, position, lead_id, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(&c.ID, &c.PipelineID, &c.StageID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Value,
		&c.Notes, &c.Position, &c.LeadID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CRMRepository) CreateContact(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO crm_contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM crm_contacts WHERE stage_id = $3), $10, $11, $12)
		RETURNING position
	`
	return r.DB.QueryRowContext(ctx, query, c.ID, c.PipelineID, c.StageID, c.Name, c.Email, c.Phone, c.Company,
		c.Value, c.Notes, c.LeadID, c.CreatedAt, c.UpdatedAt).Scan(&c.Position)
}

func (r *CRMRepository) UpdateContact(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE crm_contacts SET name = $2, email = $3, phone = $4, company = $5, value = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
	`
	return expectOneRow(r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Company, c.Value, c.Notes))
}

func (r *CRMRepository) DeleteContact(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `DELETE FROM crm_contacts WHERE id = $1`, id))
}

func (r *CRMRepository) FindContact(ctx context.Context, id string) (*entity.Contact, error) {
	c, err := scanContact(r.DB.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM crm_contacts WHERE id = $1`, id))
	return c, notFound(err)
}

func (r *CRMRepository) ListContacts(ctx context.Context, pipelineID string) ([]*entity.Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM crm_contacts WHERE pipeline_id = $1 ORDER BY stage_id, position`, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MoveContact abre espaço na coluna de destino e posiciona o cartão, tudo numa transação.
func (r *CRMRepository) MoveContact(ctx context.Context, id, stageID string, position int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE crm_contacts SET position = position + 1 WHERE stage_id = $1 AND position >= $2 AND id <> $3`,
		stageID, position, id); err != nil {
		return err
	}
	if err := expectOneRow(tx.ExecContext(ctx,
		`UPDATE crm_contacts SET stage_id = $2, position = $3, updated_at = NOW() WHERE id = $1`,
		id, stageID, position)); err != nil {
		return err
	}
	return tx.Commit()
}
