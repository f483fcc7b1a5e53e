package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/integration/whatsapp"
	"go.uber.org/zap"
)

const (
	MessageSent   = "SENT"
	MessageFailed = "FAILED"
)

type InstanceInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	InstanceName string `json:"instance_name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	IsDefault    bool   `json:"is_default"`
}

type CreateInstanceOutput struct {
	Instance *entity.WhatsAppInstance `json:"instance"`
	QRCode   string                   `json:"qrcode,omitempty"`
}

type SendWhatsAppInput struct {
	InstanceID string `json:"instance_id"`
	Phone      string `json:"phone" validate:"required,phone"`
	Text       string `json:"text" validate:"required,max=4096"`
}

type WhatsAppUseCase struct {
	Repo    entity.WhatsAppRepositoryInterface
	Gateway WhatsAppGateway
	logger  *zap.Logger
}

func NewWhatsAppUseCase(repo entity.WhatsAppRepositoryInterface, gateway WhatsAppGateway, logger *zap.Logger) *WhatsAppUseCase {
	return &WhatsAppUseCase{Repo: repo, Gateway: gateway, logger: logger}
}

// CreateInstance cadastra a instância na API e devolve o QR code para parear o aparelho.
func (uc *WhatsAppUseCase) CreateInstance(ctx context.Context, input InstanceInput) (*CreateInstanceOutput, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	now := time.Now()
	inst := &entity.WhatsAppInstance{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		InstanceName: strings.TrimSpace(input.InstanceName),
		Phone:        nonDigit.ReplaceAllString(input.Phone, ""),
		Status:       "connecting",
		IsDefault:    input.IsDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	out := &CreateInstanceOutput{Instance: inst}
	resp, err := uc.Gateway.CreateInstance(ctx, inst.InstanceName)
	if err != nil {
		return nil, uc.gatewayError("erro ao criar instância", err)
	}
	out.QRCode = resp.QRCode.Base64
	if resp.Instance.Status != "" {
		inst.Status = resp.Instance.Status
	}

	if err := uc.Repo.CreateInstance(ctx, inst); err != nil {
		return nil, translate(err)
	}
	uc.logger.Info("📱 instância whatsapp criada", zap.String("instance", inst.InstanceName))
	return out, nil
}

func (uc *WhatsAppUseCase) ListInstances(ctx context.Context) ([]*entity.WhatsAppInstance, error) {
	list, err := uc.Repo.ListInstances(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	if list == nil {
		list = []*entity.WhatsAppInstance{}
	}
	return list, nil
}

// RefreshStatus consulta a API e grava o estado atual (open, close, connecting).
func (uc *WhatsAppUseCase) RefreshStatus(ctx context.Context, id string) (*entity.WhatsAppInstance, error) {
	inst, err := uc.Repo.FindInstance(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	state, err := uc.Gateway.ConnectionState(ctx, inst.InstanceName)
	if err != nil {
		return nil, uc.gatewayError("erro ao consultar instância", err)
	}
	if state != inst.Status {
		if err := uc.Repo.UpdateInstanceStatus(ctx, inst.ID, state); err != nil {
			return nil, translate(err)
		}
		inst.Status = state
	}
	return inst, nil
}

func (uc *WhatsAppUseCase) DeleteInstance(ctx context.Context, id string) error {
	inst, err := uc.Repo.FindInstance(ctx, id)
	if err != nil {
		return translate(err)
	}
	if err := uc.Gateway.Logout(ctx, inst.InstanceName); err != nil {
		// instância já desconectada na API não impede a remoção local
		uc.logger.Warn("falha no logout da instância", zap.String("instance", inst.InstanceName), zap.Error(err))
	}
	return translate(uc.Repo.DeleteInstance(ctx, id))
}

// Send envia pela instância informada ou pela padrão. Toda tentativa fica registrada.
func (uc *WhatsAppUseCase) Send(ctx context.Context, input SendWhatsAppInput) (*entity.WhatsAppMessage, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	inst, err := uc.instance(ctx, input.InstanceID)
	if err != nil {
		return nil, err
	}

	msg := &entity.WhatsAppMessage{
		ID:         uuid.New().String(),
		InstanceID: inst.ID,
		Phone:      whatsapp.NormalizePhone(input.Phone),
		Body:       input.Text,
		Status:     MessageSent,
		CreatedAt:  time.Now(),
	}
	resp, sendErr := uc.Gateway.SendText(ctx, inst.InstanceName, whatsapp.SendMessageInput{PhoneNumber: input.Phone, Text: input.Text})
	if sendErr != nil {
		msg.Status = MessageFailed
	} else {
		msg.ExternalID = resp.Key.ID
	}
	if err := uc.Repo.LogMessage(ctx, msg); err != nil {
		uc.logger.Warn("falha ao registrar mensagem", zap.String("message_id", msg.ID), zap.Error(err))
	}
	if sendErr != nil {
		return msg, uc.gatewayError("erro ao enviar mensagem", sendErr)
	}
	return msg, nil
}

func (uc *WhatsAppUseCase) instance(ctx context.Context, id string) (*entity.WhatsAppInstance, error) {
	var (
		inst *entity.WhatsAppInstance
		err  error
	)
	if id != "" {
		inst, err = uc.Repo.FindInstance(ctx, id)
	} else {
		inst, err = uc.Repo.FindDefaultInstance(ctx)
	}
	if errors.Is(err, entity.ErrNotFound) {
		return nil, &DomainError{Code: CodeInvalidState, Message: "nenhuma instância de whatsapp disponível", Err: err}
	}
	if err != nil {
		return nil, dbError(err)
	}
	return inst, nil
}

func (uc *WhatsAppUseCase) Messages(ctx context.Context, instanceID string, limit int) ([]*entity.WhatsAppMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := uc.Repo.ListMessages(ctx, instanceID, limit)
	if err != nil {
		return nil, dbError(err)
	}
	if list == nil {
		list = []*entity.WhatsAppMessage{}
	}
	return list, nil
}

func (uc *WhatsAppUseCase) gatewayError(msg string, err error) error {
	if errors.Is(err, whatsapp.ErrNotConfigured) {
		return &DomainError{Code: CodeInvalidState, Message: "integração whatsapp não configurada", Err: err}
	}
	uc.logger.Error("❌ "+msg, zap.Error(err))
	return &TechnicalError{Code: CodeGateway, Message: msg, Err: err}
}
