package entity

import (
	"context"
	"time"
)

type WhatsAppInstance struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	InstanceName string    `json:"instance_name"`
	Phone        string    `json:"phone,omitempty"`
	Status       string    `json:"status"` // open, close, connecting
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type WhatsAppMessage struct {
	ID         string    `json:"id"`
	InstanceID string    `json:"instance_id"`
	Phone      string    `json:"phone"`
	Body       string    `json:"body"`
	ExternalID string    `json:"external_id,omitempty"`
	Status     string    `json:"status"` // SENT, FAILED
	CreatedAt  time.Time `json:"created_at"`
}

type WhatsAppRepositoryInterface interface {
	CreateInstance(ctx context.Context, i *WhatsAppInstance) error
	ListInstances(ctx context.Context) ([]*WhatsAppInstance, error)
	FindInstance(ctx context.Context, id string) (*WhatsAppInstance, error)
	FindDefaultInstance(ctx context.Context) (*WhatsAppInstance, error)
	UpdateInstanceStatus(ctx context.Context, id, status string) error
	DeleteInstance(ctx context.Context, id string) error
	LogMessage(ctx context.Context, m *WhatsAppMessage) error
	ListMessages(ctx context.Context, instanceID string, limit int) ([]*WhatsAppMessage, error)
}
