package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type FlowInput struct {
	Name        string            `json:"name" yaml:"name" validate:"required,max=100"`
	Description string            `json:"description" yaml:"description" validate:"max=500"`
	Trigger     string            `json:"trigger" yaml:"trigger" validate:"required"`
	Active      bool              `json:"active" yaml:"active"`
	Steps       []entity.FlowStep `json:"steps" yaml:"steps" validate:"required,min=1"`
}

// flowFile é o formato aceito na importação: uma lista em "flows".
type flowFile struct {
	Flows []FlowInput `yaml:"flows"`
}

type AutomationUseCase struct {
	Repo     entity.AutomationRepositoryInterface
	WhatsApp *WhatsAppUseCase
	CRM      *CRMUseCase
	Mail     EmailService
	logger   *zap.Logger
}

func NewAutomationUseCase(repo entity.AutomationRepositoryInterface, wa *WhatsAppUseCase, crm *CRMUseCase, mailer EmailService, logger *zap.Logger) *AutomationUseCase {
	return &AutomationUseCase{Repo: repo, WhatsApp: wa, CRM: crm, Mail: mailer, logger: logger}
}

func (uc *AutomationUseCase) List(ctx context.Context) ([]*entity.AutomationFlow, error) {
	list, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	if list == nil {
		list = []*entity.AutomationFlow{}
	}
	return list, nil
}

func (uc *AutomationUseCase) Get(ctx context.Context, id string) (*entity.AutomationFlow, error) {
	f, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (uc *AutomationUseCase) Create(ctx context.Context, input FlowInput) (*entity.AutomationFlow, error) {
	if err := validateFlow(input); err != nil {
		return nil, err
	}
	now := time.Now()
	f := &entity.AutomationFlow{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyFlowInput(f, input)
	if err := uc.Repo.Create(ctx, f); err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (uc *AutomationUseCase) Update(ctx context.Context, id string, input FlowInput) (*entity.AutomationFlow, error) {
	if err := validateFlow(input); err != nil {
		return nil, err
	}
	f, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyFlowInput(f, input)
	f.UpdatedAt = time.Now()
	if err := uc.Repo.Update(ctx, f); err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (uc *AutomationUseCase) SetActive(ctx context.Context, id string, active bool) (*entity.AutomationFlow, error) {
	f, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Active = active
	f.UpdatedAt = time.Now()
	if err := uc.Repo.Update(ctx, f); err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (uc *AutomationUseCase) Delete(ctx context.Context, id string) error {
	return translate(uc.Repo.Delete(ctx, id))
}

// Import lê fluxos em YAML. Um fluxo com o mesmo nome de um existente é atualizado.
func (uc *AutomationUseCase) Import(ctx context.Context, data []byte) ([]*entity.AutomationFlow, error) {
	var file flowFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, invalidInput("yaml inválido: " + err.Error())
	}
	if len(file.Flows) == 0 {
		return nil, invalidInput("nenhum fluxo encontrado em \"flows\"")
	}
	for i, in := range file.Flows {
		if err := validateFlow(in); err != nil {
			return nil, invalidInput(fmt.Sprintf("fluxo %d (%s): %v", i+1, in.Name, err))
		}
	}

	existing, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*entity.AutomationFlow, len(existing))
	for _, f := range existing {
		byName[f.Name] = f
	}

	out := make([]*entity.AutomationFlow, 0, len(file.Flows))
	for _, in := range file.Flows {
		var f *entity.AutomationFlow
		if old, ok := byName[strings.TrimSpace(in.Name)]; ok {
			f, err = uc.Update(ctx, old.ID, in)
		} else {
			f, err = uc.Create(ctx, in)
		}
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
	uc.logger.Info("⚙️ fluxos importados", zap.Int("count", len(out)))
	return out, nil
}

func applyFlowInput(f *entity.AutomationFlow, input FlowInput) {
	f.Name = strings.TrimSpace(input.Name)
	f.Description = input.Description
	f.Trigger = input.Trigger
	f.Active = input.Active
	f.Steps = input.Steps
}

func validateFlow(input FlowInput) error {
	var errs ValidationErrors
	if err := Validate(input); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	if input.Trigger != "" && !entity.ValidTrigger(input.Trigger) {
		errs = append(errs, ValidationError{Field: "trigger", Message: "unknown trigger"})
	}
	for i, s := range input.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		if !entity.ValidStepType(s.Type) {
			errs = append(errs, ValidationError{Field: field + ".type", Message: "unknown step type"})
			continue
		}
		switch s.Type {
		case entity.StepSendWhatsApp, entity.StepSendEmail:
			if s.Template == "" {
				errs = append(errs, ValidationError{Field: field + ".template", Message: "is required"})
			} else if _, err := parseTemplate(s.Template); err != nil {
				errs = append(errs, ValidationError{Field: field + ".template", Message: err.Error()})
			}
		case entity.StepCreateContact:
			if s.PipelineID == "" {
				errs = append(errs, ValidationError{Field: field + ".pipeline_id", Message: "is required"})
			}
		case entity.StepMoveStage:
			if s.StageID == "" {
				errs = append(errs, ValidationError{Field: field + ".stage_id", Message: "is required"})
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func parseTemplate(text string) (*template.Template, error) {
	return template.New("step").Option("missingkey=zero").Parse(text)
}

// Render avalia o template do passo com os dados do evento.
func Render(text string, data map[string]any) (string, error) {
	tpl, err := parseTemplate(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}

// Run executa os fluxos ativos do gatilho do evento. Um passo com erro é registrado e o fluxo segue.
func (uc *AutomationUseCase) Run(ctx context.Context, event entity.Event) error {
	flows, err := uc.Repo.ListActiveByTrigger(ctx, event.Type)
	if err != nil {
		return dbError(err)
	}
	for _, f := range flows {
		data := make(map[string]any, len(event.Data)+1)
		for k, v := range event.Data {
			data[k] = v
		}
		log := uc.logger.With(zap.String("flow", f.Name), zap.String("event_id", event.ID))
		for i, step := range f.Steps {
			if err := uc.runStep(ctx, step, data); err != nil {
				log.Error("❌ passo da automação falhou", zap.Int("step", i), zap.String("type", step.Type), zap.Error(err))
			}
		}
		log.Info("⚙️ automação executada", zap.Int("steps", len(f.Steps)))
	}
	return nil
}

var errMissingRecipient = errors.New("evento sem destinatário")

func (uc *AutomationUseCase) runStep(ctx context.Context, step entity.FlowStep, data map[string]any) error {
	get := func(key string) string {
		if v, ok := data[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return ""
	}

	switch step.Type {
	case entity.StepSendWhatsApp:
		phone := get("phone")
		if phone == "" {
			return errMissingRecipient
		}
		body, err := Render(step.Template, data)
		if err != nil {
			return err
		}
		_, err = uc.WhatsApp.Send(ctx, SendWhatsAppInput{Phone: phone, Text: body})
		return err

	case entity.StepSendEmail:
		to := get("email")
		if to == "" {
			return errMissingRecipient
		}
		body, err := Render(step.Template, data)
		if err != nil {
			return err
		}
		subject := step.Subject
		if subject != "" {
			if subject, err = Render(subject, data); err != nil {
				return err
			}
		} else {
			subject = "ROG Membranas"
		}
		return uc.Mail.Send(to, subject, body)

	case entity.StepCreateContact:
		name := get("name")
		if name == "" {
			name = get("email")
		}
		c, err := uc.CRM.createContact(ctx, ContactInput{
			PipelineID: step.PipelineID,
			StageID:    step.StageID,
			Name:       name,
			Email:      get("email"),
			Phone:      get("phone"),
		}, get("lead_id"))
		if err != nil {
			return err
		}
		data["contact_id"] = c.ID
		return nil

	case entity.StepMoveStage:
		id := get("contact_id")
		if id == "" {
			return errors.New("nenhum contato criado antes do move_stage")
		}
		_, err := uc.CRM.MoveContact(ctx, id, MoveContactInput{StageID: step.StageID})
		return err
	}
	return fmt.Errorf("passo desconhecido: %s", step.Type)
}
