package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/rog-store/internal/auth"
	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=3,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	CPF      string `json:"cpf" validate:"omitempty,cpf"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	CRO      string `json:"cro" validate:"omitempty,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthOutput struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Customer  *entity.Customer `json:"customer"`
}

type UpdateProfileInput struct {
	Name    string         `json:"name" validate:"required,min=3,max=200"`
	Phone   string         `json:"phone" validate:"omitempty,phone"`
	CRO     string         `json:"cro" validate:"omitempty,max=20"`
	Address entity.Address `json:"address"`
}

type AuthUseCase struct {
	Repo   entity.CustomerRepositoryInterface
	Tokens TokenIssuer
	logger *zap.Logger
}

func NewAuthUseCase(repo entity.CustomerRepositoryInterface, tokens TokenIssuer, logger *zap.Logger) *AuthUseCase {
	return &AuthUseCase{Repo: repo, Tokens: tokens, logger: logger}
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	exists, err := uc.Repo.CheckDuplicity(ctx, strings.ToLower(input.Email), nonDigit.ReplaceAllString(input.CPF, ""))
	if err != nil {
		return nil, dbError(err)
	}
	if exists {
		return nil, &DomainError{Code: CodeConflict, Message: "email ou CPF já cadastrado", Err: entity.ErrEmailAlreadyExists}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "erro ao processar senha", Err: err}
	}

	customer, err := entity.NewCustomer(input.Name, input.Email, nonDigit.ReplaceAllString(input.CPF, ""), input.Phone, hash)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	customer.CRO = input.CRO

	if err := uc.Repo.Create(ctx, customer); err != nil {
		return nil, translate(err)
	}
	uc.logger.Info("👤 cliente cadastrado", zap.String("customer_id", customer.ID))

	return uc.issue(customer)
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	customer, err := uc.Repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, translate(entity.ErrInvalidCredentials)
		}
		return nil, dbError(err)
	}
	if !auth.CheckPassword(customer.PasswordHash, input.Password) {
		return nil, translate(entity.ErrInvalidCredentials)
	}
	return uc.issue(customer)
}

func (uc *AuthUseCase) issue(c *entity.Customer) (*AuthOutput, error) {
	token, exp, err := uc.Tokens.Issue(c.ID, c.Email, c.IsAdmin)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: "erro ao gerar token", Err: err}
	}
	return &AuthOutput{Token: token, ExpiresAt: exp, Customer: c}, nil
}

func (uc *AuthUseCase) Profile(ctx context.Context, customerID string) (*entity.Customer, error) {
	c, err := uc.Repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (uc *AuthUseCase) UpdateProfile(ctx context.Context, customerID string, input UpdateProfileInput) (*entity.Customer, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	if input.Address.ZipCode != "" && !isValidZipCode(input.Address.ZipCode) {
		return nil, ValidationErrors{{Field: "address.zip_code", Message: "must be a valid zip code (XXXXX-XXX)"}}
	}

	c, err := uc.Repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, translate(err)
	}
	c.Name = strings.TrimSpace(input.Name)
	c.Phone = input.Phone
	c.CRO = input.CRO
	c.Address = input.Address
	c.Address.ZipCode = nonDigit.ReplaceAllString(c.Address.ZipCode, "")
	c.UpdatedAt = time.Now()

	if err := uc.Repo.Update(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// CheckAvailability é usado pelo cadastro para avisar antes do submit.
func (uc *AuthUseCase) CheckAvailability(ctx context.Context, email, cpf string) (bool, error) {
	exists, err := uc.Repo.CheckDuplicity(ctx, strings.ToLower(strings.TrimSpace(email)), nonDigit.ReplaceAllString(cpf, ""))
	if err != nil {
		return false, dbError(err)
	}
	return !exists, nil
}
