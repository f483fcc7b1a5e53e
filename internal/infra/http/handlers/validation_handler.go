package handlers

import (
	"net/http"

	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// ValidationHandler responde as checagens que o front faz antes do submit.
type ValidationHandler struct {
	Auth     *usecase.AuthUseCase
	Vouchers *usecase.VoucherUseCase
	logger   *zap.Logger
}

func NewValidationHandler(auth *usecase.AuthUseCase, vouchers *usecase.VoucherUseCase, logger *zap.Logger) *ValidationHandler {
	return &ValidationHandler{Auth: auth, Vouchers: vouchers, logger: logger}
}

// Availability (POST /validate/customer): 409 quando e-mail ou CPF já existem.
func (h *ValidationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
		CPF   string `json:"cpf"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Email == "" || input.CPF == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "email e cpf são obrigatórios")
		return
	}

	available, err := h.Auth.CheckAvailability(r.Context(), input.Email, input.CPF)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !available {
		writeErrorResponse(w, http.StatusConflict, "user_exists", "Um usuário com este email ou CPF já existe")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Voucher (POST /vouchers/validate): cupom recusado é 422 com valid=false e o motivo.
func (h *ValidationHandler) Voucher(w http.ResponseWriter, r *http.Request) {
	var input usecase.ValidateVoucherInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.Vouchers.Validate(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !out.Valid {
		middleware.RecordVoucherRejection(out.Reason)
		writeJSON(w, http.StatusUnprocessableEntity, out)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
