package entity

import (
	"context"
	"time"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

type SupportTicket struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	OrderID    string          `json:"order_id,omitempty"`
	Subject    string          `json:"subject"`
	Status     TicketStatus    `json:"status"`
	Priority   string          `json:"priority"`
	Messages   []TicketMessage `json:"messages,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type TicketMessage struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	FromStaff bool      `json:"from_staff"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketRepositoryInterface interface {
	Create(ctx context.Context, t *SupportTicket) error
	FindByID(ctx context.Context, id string) (*SupportTicket, error)
	List(ctx context.Context, customerID string, status TicketStatus) ([]*SupportTicket, error)
	UpdateStatus(ctx context.Context, id string, status TicketStatus) error
	AddMessage(ctx context.Context, m *TicketMessage) error
	ListMessages(ctx context.Context, ticketID string) ([]TicketMessage, error)
}
