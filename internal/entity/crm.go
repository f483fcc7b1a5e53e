package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Pipeline struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Stages    []Stage   `json:"stages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Stage é uma coluna do kanban.
type Stage struct {
	ID         string `json:"id"`
	PipelineID string `json:"pipeline_id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
	Color      string `json:"color,omitempty"`
}

// Contact é um cartão do kanban.
type Contact struct {
	ID         string          `json:"id"`
	PipelineID string          `json:"pipeline_id"`
	StageID    string          `json:"stage_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Company    string          `json:"company,omitempty"`
	Value      decimal.Decimal `json:"value"`
	Notes      string          `json:"notes,omitempty"`
	Position   int             `json:"position"`
	LeadID     string          `json:"lead_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type BoardColumn struct {
	Stage    Stage      `json:"stage"`
	Contacts []*Contact `json:"contacts"`
}

type CRMRepositoryInterface interface {
	CreatePipeline(ctx context.Context, p *Pipeline) error
	ListPipelines(ctx context.Context) ([]*Pipeline, error)
	FindPipeline(ctx context.Context, id string) (*Pipeline, error)
	CreateStage(ctx context.Context, s *Stage) error
	ListStages(ctx context.Context, pipelineID string) ([]Stage, error)
	FindStage(ctx context.Context, id string) (*Stage, error)

	CreateContact(ctx context.Context, c *Contact) error
	UpdateContact(ctx context.Context, c *Contact) error
	DeleteContact(ctx context.Context, id string) error
	FindContact(ctx context.Context, id string) (*Contact, error)
	ListContacts(ctx context.Context, pipelineID string) ([]*Contact, error)
	MoveContact(ctx context.Context, id, stageID string, position int) error
}
