package handlers

import (
	"net/http"

	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// CustomerHandler cobre cadastro, login e o perfil do cliente logado.
type CustomerHandler struct {
	Auth   *usecase.AuthUseCase
	logger *zap.Logger
}

func NewCustomerHandler(uc *usecase.AuthUseCase, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{Auth: uc, logger: logger}
}

// Register (POST /auth/register)
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.Auth.Register(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// Login (POST /auth/login)
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.Auth.Login(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Me (GET /me)
func (h *CustomerHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, err := h.Auth.Profile(r.Context(), middleware.CustomerID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateMe (PUT /me)
func (h *CustomerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := h.Auth.UpdateProfile(r.Context(), middleware.CustomerID(r.Context()), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
