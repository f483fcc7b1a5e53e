package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// LeadHandler: captura pública (landing page) e a triagem pela equipe.
type LeadHandler struct {
	CRM    *usecase.CRMUseCase
	logger *zap.Logger
}

func NewLeadHandler(crm *usecase.CRMUseCase, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{CRM: crm, logger: logger}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CaptureLead (POST /leads). O rate limit por IP fica no router.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if _, err := h.CRM.CaptureLead(r.Context(), input); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, CaptureLeadResponse{Success: true})
}

// List (GET /admin/leads?status=NEW)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.CRM.ListLeads(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Convert (POST /admin/leads/{id}/convert)
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PipelineID string `json:"pipeline_id"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	contact, err := h.CRM.ConvertLead(r.Context(), chi.URLParam(r, "id"), input.PipelineID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}
