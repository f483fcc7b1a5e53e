package entity

import "errors"

var (
	ErrNotFound           = errors.New("registro não encontrado")
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
	ErrInvalidZipCode     = errors.New("cep inválido: são necessários 8 dígitos")
	ErrInvalidTransition  = errors.New("transição de status inválida")
	ErrOutOfStock         = errors.New("estoque insuficiente")
	ErrAlreadyExists      = errors.New("registro já existe")
	ErrInvalidCredentials = errors.New("email ou senha inválidos")
)
