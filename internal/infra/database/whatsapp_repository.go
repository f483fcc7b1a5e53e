package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/rog-store/internal/entity"
)

type WhatsAppRepository struct {
	DB *sql.DB
}

func NewWhatsAppRepository(db *sql.DB) *WhatsAppRepository {
	return &WhatsAppRepository{DB: db}
}

const instanceColumns = `id, name, instance_name, phone, status, is_default, created_at, updated_at`

func scanInstance(row interface{ Scan(...any) error }) (*entity.WhatsAppInstance, error) {
	var i entity.WhatsAppInstance
	if err := row.Scan(&i.ID, &i.Name, &i.InstanceName, &i.Phone, &i.Status, &i.IsDefault, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateInstance garante uma única instância padrão.
func (r *WhatsAppRepository) CreateInstance(ctx context.Context, i *entity.WhatsAppInstance) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if i.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE whatsapp_instances SET is_default = FALSE WHERE is_default`); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO whatsapp_instances (`+instanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		i.ID, i.Name, i.InstanceName, i.Phone, i.Status, i.IsDefault, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrAlreadyExists
		}
		return err
	}
	return tx.Commit()
}

func (r *WhatsAppRepository) ListInstances(ctx context.Context) ([]*entity.WhatsAppInstance, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+instanceColumns+` FROM whatsapp_instances ORDER BY is_default DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.WhatsAppInstance
	for rows.Next() {
		i, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *WhatsAppRepository) FindInstance(ctx context.Context, id string) (*entity.WhatsAppInstance, error) {
	i, err := scanInstance(r.DB.QueryRowContext(ctx, `SELECT `+instanceColumns+` FROM whatsapp_instances WHERE id = $1`, id))
	return i, notFound(err)
}

// FindDefaultInstance cai para a instância conectada mais antiga quando nenhuma está marcada como padrão.
func (r *WhatsAppRepository) FindDefaultInstance(ctx context.Context) (*entity.WhatsAppInstance, error) {
	i, err := scanInstance(r.DB.QueryRowContext(ctx, `
		SELECT `+instanceColumns+` FROM whatsapp_instances
		ORDER BY is_default DESC, (status = 'open') DESC, created_at
		LIMIT 1`))
	return i, notFound(err)
}

func (r *WhatsAppRepository) UpdateInstanceStatus(ctx context.Context, id, status string) error {
	return expectOneRow(r.DB.ExecContext(ctx,
		`UPDATE whatsapp_instances SET status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}

func (r *WhatsAppRepository) DeleteInstance(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `DELETE FROM whatsapp_instances WHERE id = $1`, id))
}

func (r *WhatsAppRepository) LogMessage(ctx context.Context, m *entity.WhatsAppMessage) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO whatsapp_messages (id, instance_id, phone, body, external_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.InstanceID, m.Phone, m.Body, m.ExternalID, m.Status, m.CreatedAt)
	return err
}

func (r *WhatsAppRepository) ListMessages(ctx context.Context, instanceID string, limit int) ([]*entity.WhatsAppMessage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, instance_id, phone, body, external_id, status, created_at
		FROM whatsapp_messages WHERE instance_id = $1 ORDER BY created_at DESC LIMIT $2`,
		instanceID, limitOrDefault(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.WhatsAppMessage
	for rows.Next() {
		var m entity.WhatsAppMessage
		if err := rows.Scan(&m.ID, &m.InstanceID, &m.Phone, &m.Body, &m.ExternalID, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
