package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

// Value Object: Address
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
}

// Customer é o perfil de quem compra na loja (dentistas, clínicas) e também dos admins.
type Customer struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	CPF          string  `json:"cpf"`
	Phone        string  `json:"phone"`
	CRO          string  `json:"cro,omitempty"`
	Address      Address `json:"address"`
	IsAdmin      bool    `json:"is_admin"`

	// ID do cliente no Asaas
	GatewayID string    `json:"gateway_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCustomer(name, email, cpf, phone, passwordHash string) (*Customer, error) {
	customer := &Customer{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		CPF:          cpf,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	return customer, nil
}

func (c *Customer) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	if c.PasswordHash == "" {
		return errors.New("password is required")
	}
	return nil
}

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	UpdateGatewayID(ctx context.Context, customerID, gatewayID string) error
	CheckDuplicity(ctx context.Context, email, cpf string) (bool, error)
}
