package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// SupportHandler atende as rotas do cliente (/me/tickets) e da equipe (/admin/tickets).
type SupportHandler struct {
	Support *usecase.SupportUseCase
	logger  *zap.Logger
}

func NewSupportHandler(uc *usecase.SupportUseCase, logger *zap.Logger) *SupportHandler {
	return &SupportHandler{Support: uc, logger: logger}
}

func (h *SupportHandler) Open(w http.ResponseWriter, r *http.Request) {
	var input usecase.OpenTicketInput
	if !decodeJSON(w, r, &input) {
		return
	}
	t, err := h.Support.Open(r.Context(), middleware.CustomerID(r.Context()), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *SupportHandler) Mine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, middleware.CustomerID(r.Context()))
}

func (h *SupportHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "")
}

func (h *SupportHandler) list(w http.ResponseWriter, r *http.Request, customerID string) {
	list, err := h.Support.List(r.Context(), customerID, entity.TicketStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SupportHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, middleware.CustomerID(r.Context()))
}

func (h *SupportHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, "")
}

func (h *SupportHandler) get(w http.ResponseWriter, r *http.Request, customerID string) {
	t, err := h.Support.Get(r.Context(), chi.URLParam(r, "id"), customerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ReplyMine: o cliente só responde os próprios tickets.
func (h *SupportHandler) ReplyMine(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerID(r.Context())
	if _, err := h.Support.Get(r.Context(), chi.URLParam(r, "id"), customerID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.reply(w, r, customerID, false)
}

func (h *SupportHandler) Reply(w http.ResponseWriter, r *http.Request) {
	h.reply(w, r, middleware.CustomerID(r.Context()), true)
}

func (h *SupportHandler) reply(w http.ResponseWriter, r *http.Request, authorID string, fromStaff bool) {
	var input usecase.TicketMessageInput
	if !decodeJSON(w, r, &input) {
		return
	}
	msg, err := h.Support.Reply(r.Context(), chi.URLParam(r, "id"), authorID, fromStaff, input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// UpdateStatus (PATCH /admin/tickets/{id}/status)
func (h *SupportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status entity.TicketStatus `json:"status"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := h.Support.UpdateStatus(r.Context(), chi.URLParam(r, "id"), input.Status); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
