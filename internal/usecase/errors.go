package usecase

import (
	"errors"

	"github.com/xavierca1/rog-store/internal/entity"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInvalidState    = "INVALID_STATE"
	CodeOutOfStock      = "OUT_OF_STOCK"
	CodeVoucherRejected = "VOUCHER_REJECTED"
	CodeGateway         = "GATEWAY_ERROR"
	CodeDatabase        = "DATABASE_ERROR"
)

// DomainError é um erro de regra de negócio: vira 4xx na API.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha de infra (banco, gateway, fila): vira 5xx/502 na API.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func dbError(err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: "erro ao acessar o banco de dados", Err: err}
}

// translate converte os erros sentinela do domínio em DomainError; o resto vira TechnicalError.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	var te *TechnicalError
	var ve ValidationErrors
	switch {
	case errors.As(err, &de):
		return de
	case errors.As(err, &te):
		return te
	case errors.As(err, &ve):
		return ve
	}

	switch {
	case errors.Is(err, entity.ErrNotFound):
		return &DomainError{Code: CodeNotFound, Message: "registro não encontrado", Err: err}
	case errors.Is(err, entity.ErrEmailAlreadyExists), errors.Is(err, entity.ErrAlreadyExists):
		return &DomainError{Code: CodeConflict, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidZipCode):
		return &DomainError{Code: CodeInvalidInput, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidTransition):
		return &DomainError{Code: CodeInvalidState, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrOutOfStock):
		return &DomainError{Code: CodeOutOfStock, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidCredentials):
		return &DomainError{Code: CodeUnauthorized, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrVoucherNotFound), errors.Is(err, entity.ErrVoucherInactive),
		errors.Is(err, entity.ErrVoucherExpired), errors.Is(err, entity.ErrVoucherExhausted),
		errors.Is(err, entity.ErrVoucherMinPurchase):
		return &DomainError{Code: CodeVoucherRejected, Message: err.Error(), Err: err}
	}
	return dbError(err)
}

func notFound(what string) error {
	return &DomainError{Code: CodeNotFound, Message: what + " não encontrado", Err: entity.ErrNotFound}
}

func invalidInput(msg string) error {
	return &DomainError{Code: CodeInvalidInput, Message: msg}
}
