package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// CRMHandler: pipelines e o quadro kanban de contatos.
type CRMHandler struct {
	CRM    *usecase.CRMUseCase
	logger *zap.Logger
}

func NewCRMHandler(uc *usecase.CRMUseCase, logger *zap.Logger) *CRMHandler {
	return &CRMHandler{CRM: uc, logger: logger}
}

func (h *CRMHandler) CreatePipeline(w http.ResponseWriter, r *http.Request) {
	var input usecase.PipelineInput
	if !decodeJSON(w, r, &input) {
		return
	}
	p, err := h.CRM.CreatePipeline(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CRMHandler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	list, err := h.CRM.ListPipelines(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Board (GET /admin/crm/pipelines/{id}/board)
func (h *CRMHandler) Board(w http.ResponseWriter, r *http.Request) {
	columns, err := h.CRM.Board(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

func (h *CRMHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var input usecase.ContactInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := h.CRM.CreateContact(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CRMHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var input usecase.ContactInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := h.CRM.UpdateContact(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CRMHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.CRM.DeleteContact(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveContact (POST /admin/crm/contacts/{id}/move) é o arrastar do kanban.
func (h *CRMHandler) MoveContact(w http.ResponseWriter, r *http.Request) {
	var input usecase.MoveContactInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := h.CRM.MoveContact(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
