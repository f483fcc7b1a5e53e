package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

type AutomationHandler struct {
	Automation *usecase.AutomationUseCase
	logger     *zap.Logger
}

func NewAutomationHandler(uc *usecase.AutomationUseCase, logger *zap.Logger) *AutomationHandler {
	return &AutomationHandler{Automation: uc, logger: logger}
}

func (h *AutomationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Automation.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AutomationHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.Automation.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *AutomationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.FlowInput
	if !decodeJSON(w, r, &input) {
		return
	}
	f, err := h.Automation.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *AutomationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.FlowInput
	if !decodeJSON(w, r, &input) {
		return
	}
	f, err := h.Automation.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// SetActive (PATCH /admin/automations/{id}/active) liga ou desliga o fluxo.
func (h *AutomationHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	f, err := h.Automation.SetActive(r.Context(), chi.URLParam(r, "id"), input.Active)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *AutomationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Automation.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import (POST /admin/automations/import) recebe o YAML cru no corpo.
func (h *AutomationHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "corpo inválido")
		return
	}
	flows, err := h.Automation.Import(r.Context(), data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, flows)
}
