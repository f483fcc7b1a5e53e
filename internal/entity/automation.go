package entity

import (
	"context"
	"time"
)

const (
	TriggerOrderCreated  = "order.created"
	TriggerOrderPaid     = "order.paid"
	TriggerLeadCreated   = "lead.created"
	TriggerTicketCreated = "ticket.created"
)

const (
	StepSendWhatsApp  = "send_whatsapp"
	StepSendEmail     = "send_email"
	StepCreateContact = "create_contact"
	StepMoveStage     = "move_stage"
)

var validTriggers = map[string]bool{
	TriggerOrderCreated: true, TriggerOrderPaid: true, TriggerLeadCreated: true, TriggerTicketCreated: true,
}

var validSteps = map[string]bool{
	StepSendWhatsApp: true, StepSendEmail: true, StepCreateContact: true, StepMoveStage: true,
}

func ValidTrigger(t string) bool  { return validTriggers[t] }
func ValidStepType(t string) bool { return validSteps[t] }

type AutomationFlow struct {
	ID          string     `json:"id" yaml:"id,omitempty"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Trigger     string     `json:"trigger" yaml:"trigger"`
	Active      bool       `json:"active" yaml:"active"`
	Steps       []FlowStep `json:"steps" yaml:"steps"`
	CreatedAt   time.Time  `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"-"`
}

// FlowStep: Template é um text/template avaliado com os dados do evento.
type FlowStep struct {
	Type       string `json:"type" yaml:"type"`
	Template   string `json:"template,omitempty" yaml:"template,omitempty"`
	Subject    string `json:"subject,omitempty" yaml:"subject,omitempty"`
	PipelineID string `json:"pipeline_id,omitempty" yaml:"pipeline_id,omitempty"`
	StageID    string `json:"stage_id,omitempty" yaml:"stage_id,omitempty"`
}

type AutomationRepositoryInterface interface {
	Create(ctx context.Context, f *AutomationFlow) error
	Update(ctx context.Context, f *AutomationFlow) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*AutomationFlow, error)
	List(ctx context.Context) ([]*AutomationFlow, error)
	ListActiveByTrigger(ctx context.Context, trigger string) ([]*AutomationFlow, error)
}
