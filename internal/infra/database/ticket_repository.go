package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/rog-store/internal/entity"
)

type TicketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{DB: db}
}

const ticketColumns = `id, customer_id, order_id, subject, status, priority, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*entity.SupportTicket, error) {
	var t entity.SupportTicket
	if err := row.Scan(&t.ID, &t.CustomerID, &t.OrderID, &t.Subject, &t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) Create(ctx context.Context, t *entity.SupportTicket) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO support_tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.CustomerID, t.OrderID, t.Subject, t.Status, t.Priority, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*entity.SupportTicket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if t.Messages, err = r.ListMessages(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

// List: customerID vazio lista todos (visão do admin).
func (r *TicketRepository) List(ctx context.Context, customerID string, status entity.TicketStatus) ([]*entity.SupportTicket, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+ticketColumns+` FROM support_tickets
		WHERE ($1 = '' OR customer_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC`, customerID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status entity.TicketStatus) error {
	return expectOneRow(r.DB.ExecContext(ctx,
		`UPDATE support_tickets SET status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}

func (r *TicketRepository) AddMessage(ctx context.Context, m *entity.TicketMessage) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ticket_messages (id, ticket_id, author_id, from_staff, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.TicketID, m.AuthorID, m.FromStaff, m.Body, m.CreatedAt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE support_tickets SET updated_at = NOW() WHERE id = $1`, m.TicketID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TicketRepository) ListMessages(ctx context.Context, ticketID string) ([]entity.TicketMessage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, ticket_id, author_id, from_staff, body, created_at
		FROM ticket_messages WHERE ticket_id = $1 ORDER BY created_at`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.TicketMessage
	for rows.Next() {
		var m entity.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.AuthorID, &m.FromStaff, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
