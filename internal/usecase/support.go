package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/mail"
	"go.uber.org/zap"
)

type OpenTicketInput struct {
	Subject  string `json:"subject" validate:"required,min=3,max=200"`
	OrderID  string `json:"order_id"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high"`
	Message  string `json:"message" validate:"required,max=5000"`
}

type TicketMessageInput struct {
	Body string `json:"body" validate:"required,max=5000"`
}

type SupportUseCase struct {
	Repo      entity.TicketRepositoryInterface
	Customers entity.CustomerRepositoryInterface
	Mail      EmailService
	Queue     EventPublisher
	logger    *zap.Logger
}

func NewSupportUseCase(repo entity.TicketRepositoryInterface, customers entity.CustomerRepositoryInterface,
	mailer EmailService, queue EventPublisher, logger *zap.Logger) *SupportUseCase {
	return &SupportUseCase{Repo: repo, Customers: customers, Mail: mailer, Queue: queue, logger: logger}
}

func (uc *SupportUseCase) Open(ctx context.Context, customerID string, input OpenTicketInput) (*entity.SupportTicket, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	now := time.Now()
	t := &entity.SupportTicket{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		OrderID:    input.OrderID,
		Subject:    strings.TrimSpace(input.Subject),
		Status:     entity.TicketOpen,
		Priority:   input.Priority,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if t.Priority == "" {
		t.Priority = "normal"
	}
	if err := uc.Repo.Create(ctx, t); err != nil {
		return nil, translate(err)
	}
	msg := &entity.TicketMessage{
		ID:        uuid.New().String(),
		TicketID:  t.ID,
		AuthorID:  customerID,
		Body:      strings.TrimSpace(input.Message),
		CreatedAt: now,
	}
	if err := uc.Repo.AddMessage(ctx, msg); err != nil {
		return nil, translate(err)
	}
	t.Messages = []entity.TicketMessage{*msg}

	uc.logger.Info("🎫 ticket aberto", zap.String("ticket_id", t.ID), zap.String("customer_id", customerID))
	uc.publishCreated(ctx, t)
	return t, nil
}

func (uc *SupportUseCase) publishCreated(ctx context.Context, t *entity.SupportTicket) {
	if uc.Queue == nil {
		return
	}
	data := map[string]any{
		"ticket_id":   t.ID,
		"subject":     t.Subject,
		"priority":    t.Priority,
		"customer_id": t.CustomerID,
	}
	if c, err := uc.Customers.FindByID(ctx, t.CustomerID); err == nil {
		data["name"] = c.Name
		data["email"] = c.Email
		data["phone"] = c.Phone
	}
	if err := uc.Queue.Publish(ctx, entity.NewEvent(entity.TriggerTicketCreated, data)); err != nil {
		uc.logger.Error("❌ falha ao publicar ticket.created", zap.String("ticket_id", t.ID), zap.Error(err))
	}
}

// List: customerID vazio lista todos (admin).
func (uc *SupportUseCase) List(ctx context.Context, customerID string, status entity.TicketStatus) ([]*entity.SupportTicket, error) {
	if status != "" && !status.Valid() {
		return nil, invalidInput("status inválido: " + string(status))
	}
	list, err := uc.Repo.List(ctx, customerID, status)
	if err != nil {
		return nil, dbError(err)
	}
	if list == nil {
		list = []*entity.SupportTicket{}
	}
	return list, nil
}

// Get carrega o ticket com as mensagens; customerID vazio dispensa a checagem de dono.
func (uc *SupportUseCase) Get(ctx context.Context, id, customerID string) (*entity.SupportTicket, error) {
	t, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if customerID != "" && t.CustomerID != customerID {
		return nil, notFound("ticket")
	}
	msgs, err := uc.Repo.ListMessages(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	t.Messages = msgs
	return t, nil
}

// Reply adiciona mensagem do cliente (customerID preenchido) ou da equipe (staffID).
// Resposta da equipe avisa o cliente por e-mail e tira o ticket de "open".
func (uc *SupportUseCase) Reply(ctx context.Context, ticketID, authorID string, fromStaff bool, input TicketMessageInput) (*entity.TicketMessage, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	owner := authorID
	if fromStaff {
		owner = ""
	}
	t, err := uc.Get(ctx, ticketID, owner)
	if err != nil {
		return nil, err
	}
	if t.Status == entity.TicketClosed {
		return nil, &DomainError{Code: CodeInvalidState, Message: "ticket encerrado"}
	}

	msg := &entity.TicketMessage{
		ID:        uuid.New().String(),
		TicketID:  t.ID,
		AuthorID:  authorID,
		FromStaff: fromStaff,
		Body:      strings.TrimSpace(input.Body),
		CreatedAt: time.Now(),
	}
	if err := uc.Repo.AddMessage(ctx, msg); err != nil {
		return nil, translate(err)
	}

	switch {
	case fromStaff && t.Status == entity.TicketOpen:
		uc.setStatus(ctx, t.ID, entity.TicketInProgress)
	case !fromStaff && t.Status == entity.TicketResolved:
		uc.setStatus(ctx, t.ID, entity.TicketOpen)
	}

	if fromStaff {
		uc.notifyCustomer(ctx, t, msg)
	}
	return msg, nil
}

func (uc *SupportUseCase) setStatus(ctx context.Context, id string, status entity.TicketStatus) {
	if err := uc.Repo.UpdateStatus(ctx, id, status); err != nil {
		uc.logger.Warn("falha ao atualizar status do ticket", zap.String("ticket_id", id), zap.Error(err))
	}
}

func (uc *SupportUseCase) notifyCustomer(ctx context.Context, t *entity.SupportTicket, msg *entity.TicketMessage) {
	if uc.Mail == nil {
		return
	}
	c, err := uc.Customers.FindByID(ctx, t.CustomerID)
	if err != nil {
		uc.logger.Warn("cliente do ticket não encontrado", zap.String("ticket_id", t.ID), zap.Error(err))
		return
	}
	data := mail.TicketReplyData{Name: c.Name, TicketID: t.ID, Subject: t.Subject, Body: msg.Body}
	if err := uc.Mail.SendTicketReply(c.Email, data); err != nil {
		uc.logger.Error("❌ falha ao enviar resposta do ticket", zap.String("ticket_id", t.ID), zap.Error(err))
	}
}

func (uc *SupportUseCase) UpdateStatus(ctx context.Context, id string, status entity.TicketStatus) error {
	if !status.Valid() {
		return invalidInput("status inválido: " + string(status))
	}
	if err := uc.Repo.UpdateStatus(ctx, id, status); err != nil {
		return translate(err)
	}
	return nil
}
