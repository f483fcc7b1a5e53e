package entity

import (
	"context"
	"time"
)

const (
	LeadPending   = "PENDING"
	LeadConverted = "CONVERTED"
)

type Lead struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Source    string    `json:"source,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"` // PENDING, CONVERTED
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, status string) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
