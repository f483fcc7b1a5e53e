package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

// estágios criados junto com um pipeline novo quando nenhum é informado
var defaultStages = []string{"Novo", "Contato feito", "Proposta", "Fechado"}

type PipelineInput struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Stages []string `json:"stages" validate:"dive,required,max=60"`
}

type ContactInput struct {
	PipelineID string          `json:"pipeline_id" validate:"required"`
	StageID    string          `json:"stage_id"`
	Name       string          `json:"name" validate:"required,max=200"`
	Email      string          `json:"email" validate:"omitempty,email"`
	Phone      string          `json:"phone" validate:"omitempty,phone"`
	Company    string          `json:"company" validate:"max=200"`
	Value      decimal.Decimal `json:"value"`
	Notes      string          `json:"notes" validate:"max=5000"`
}

type MoveContactInput struct {
	StageID  string `json:"stage_id" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}

type LeadInput struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"max=200"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Source  string `json:"source" validate:"max=60"`
	Message string `json:"message" validate:"max=2000"`
}

type CRMUseCase struct {
	Repo   entity.CRMRepositoryInterface
	Leads  entity.LeadRepositoryInterface
	Queue  EventPublisher
	logger *zap.Logger
}

func NewCRMUseCase(repo entity.CRMRepositoryInterface, leads entity.LeadRepositoryInterface, queue EventPublisher, logger *zap.Logger) *CRMUseCase {
	return &CRMUseCase{Repo: repo, Leads: leads, Queue: queue, logger: logger}
}

func (uc *CRMUseCase) CreatePipeline(ctx context.Context, input PipelineInput) (*entity.Pipeline, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	p := &entity.Pipeline{ID: uuid.New().String(), Name: strings.TrimSpace(input.Name), CreatedAt: time.Now()}
	if err := uc.Repo.CreatePipeline(ctx, p); err != nil {
		return nil, translate(err)
	}

	names := input.Stages
	if len(names) == 0 {
		names = defaultStages
	}
	for i, name := range names {
		s := entity.Stage{ID: uuid.New().String(), PipelineID: p.ID, Name: name, Position: i}
		if err := uc.Repo.CreateStage(ctx, &s); err != nil {
			return nil, translate(err)
		}
		p.Stages = append(p.Stages, s)
	}
	return p, nil
}

func (uc *CRMUseCase) ListPipelines(ctx context.Context) ([]*entity.Pipeline, error) {
	list, err := uc.Repo.ListPipelines(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	if list == nil {
		list = []*entity.Pipeline{}
	}
	return list, nil
}

// Board monta o kanban: uma coluna por estágio, cartões na ordem de position.
func (uc *CRMUseCase) Board(ctx context.Context, pipelineID string) ([]entity.BoardColumn, error) {
	p, err := uc.Repo.FindPipeline(ctx, pipelineID)
	if err != nil {
		return nil, translate(err)
	}
	contacts, err := uc.Repo.ListContacts(ctx, pipelineID)
	if err != nil {
		return nil, dbError(err)
	}

	byStage := make(map[string][]*entity.Contact, len(p.Stages))
	for _, c := range contacts {
		byStage[c.StageID] = append(byStage[c.StageID], c)
	}
	board := make([]entity.BoardColumn, 0, len(p.Stages))
	for _, s := range p.Stages {
		cards := byStage[s.ID]
		if cards == nil {
			cards = []*entity.Contact{}
		}
		board = append(board, entity.BoardColumn{Stage: s, Contacts: cards})
	}
	return board, nil
}

// CreateContact coloca o cartão no fim do estágio; sem estágio, no primeiro do pipeline.
func (uc *CRMUseCase) CreateContact(ctx context.Context, input ContactInput) (*entity.Contact, error) {
	return uc.createContact(ctx, input, "")
}

func (uc *CRMUseCase) createContact(ctx context.Context, input ContactInput, leadID string) (*entity.Contact, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	stageID, err := uc.resolveStage(ctx, input.PipelineID, input.StageID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Contact{
		ID:         uuid.New().String(),
		PipelineID: input.PipelineID,
		StageID:    stageID,
		LeadID:     leadID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	applyContactInput(c, input)
	if err := uc.Repo.CreateContact(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (uc *CRMUseCase) resolveStage(ctx context.Context, pipelineID, stageID string) (string, error) {
	if stageID != "" {
		s, err := uc.Repo.FindStage(ctx, stageID)
		if err != nil {
			return "", translate(err)
		}
		if s.PipelineID != pipelineID {
			return "", invalidInput("estágio não pertence ao pipeline")
		}
		return s.ID, nil
	}
	stages, err := uc.Repo.ListStages(ctx, pipelineID)
	if err != nil {
		return "", dbError(err)
	}
	if len(stages) == 0 {
		return "", invalidInput("pipeline sem estágios")
	}
	return stages[0].ID, nil
}

func applyContactInput(c *entity.Contact, input ContactInput) {
	c.Name = strings.TrimSpace(input.Name)
	c.Email = strings.ToLower(strings.TrimSpace(input.Email))
	c.Phone = nonDigit.ReplaceAllString(input.Phone, "")
	c.Company = strings.TrimSpace(input.Company)
	c.Value = input.Value
	c.Notes = input.Notes
}

func (uc *CRMUseCase) UpdateContact(ctx context.Context, id string, input ContactInput) (*entity.Contact, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	c, err := uc.Repo.FindContact(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyContactInput(c, input)
	if err := uc.Repo.UpdateContact(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (uc *CRMUseCase) DeleteContact(ctx context.Context, id string) error {
	return translate(uc.Repo.DeleteContact(ctx, id))
}

func (uc *CRMUseCase) MoveContact(ctx context.Context, id string, input MoveContactInput) (*entity.Contact, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	c, err := uc.Repo.FindContact(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	s, err := uc.Repo.FindStage(ctx, input.StageID)
	if err != nil {
		return nil, translate(err)
	}
	if s.PipelineID != c.PipelineID {
		return nil, invalidInput("estágio não pertence ao pipeline do contato")
	}
	if err := uc.Repo.MoveContact(ctx, c.ID, s.ID, input.Position); err != nil {
		return nil, translate(err)
	}
	c.StageID, c.Position = s.ID, input.Position
	return c, nil
}

// CaptureLead grava (ou atualiza, por e-mail) o lead do formulário público e publica lead.created.
func (uc *CRMUseCase) CaptureLead(ctx context.Context, input LeadInput) (*entity.Lead, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := Validate(input); err != nil {
		return nil, err
	}
	lead := &entity.Lead{
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Name:    strings.TrimSpace(input.Name),
		Phone:   nonDigit.ReplaceAllString(input.Phone, ""),
		Source:  input.Source,
		Message: input.Message,
	}
	if err := uc.Leads.Upsert(ctx, lead); err != nil {
		return nil, dbError(err)
	}
	uc.logger.Info("📇 lead capturado", zap.String("lead_id", lead.ID), zap.String("source", lead.Source))

	if uc.Queue != nil {
		ev := entity.NewEvent(entity.TriggerLeadCreated, map[string]any{
			"lead_id": lead.ID,
			"email":   lead.Email,
			"name":    lead.Name,
			"phone":   lead.Phone,
			"source":  lead.Source,
			"message": lead.Message,
		})
		if err := uc.Queue.Publish(ctx, ev); err != nil {
			uc.logger.Error("❌ falha ao publicar lead.created", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}
	return lead, nil
}

func (uc *CRMUseCase) ListLeads(ctx context.Context, status string) ([]*entity.Lead, error) {
	list, err := uc.Leads.List(ctx, strings.ToUpper(status))
	if err != nil {
		return nil, dbError(err)
	}
	if list == nil {
		list = []*entity.Lead{}
	}
	return list, nil
}

// ConvertLead vira cartão no primeiro estágio do pipeline e marca o lead como CONVERTED.
func (uc *CRMUseCase) ConvertLead(ctx context.Context, leadID, pipelineID string) (*entity.Contact, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, translate(err)
	}
	if lead.Status == entity.LeadConverted {
		return nil, &DomainError{Code: CodeConflict, Message: "lead já convertido"}
	}
	c, err := uc.contactFromLead(ctx, lead, pipelineID, "")
	if err != nil {
		return nil, err
	}
	if err := uc.Leads.UpdateStatus(ctx, lead.ID, entity.LeadConverted); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (uc *CRMUseCase) contactFromLead(ctx context.Context, lead *entity.Lead, pipelineID, stageID string) (*entity.Contact, error) {
	name := lead.Name
	if name == "" {
		name = lead.Email
	}
	return uc.createContact(ctx, ContactInput{
		PipelineID: pipelineID,
		StageID:    stageID,
		Name:       name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Notes:      lead.Message,
	}, lead.ID)
}
