package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

type WhatsAppHandler struct {
	WhatsApp *usecase.WhatsAppUseCase
	logger   *zap.Logger
}

func NewWhatsAppHandler(uc *usecase.WhatsAppUseCase, logger *zap.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{WhatsApp: uc, logger: logger}
}

// CreateInstance devolve o QR code para parear o número.
func (h *WhatsAppHandler) CreateInstance(w http.ResponseWriter, r *http.Request) {
	var input usecase.InstanceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.WhatsApp.CreateInstance(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *WhatsAppHandler) ListInstances(w http.ResponseWriter, r *http.Request) {
	list, err := h.WhatsApp.ListInstances(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *WhatsAppHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	inst, err := h.WhatsApp.RefreshStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (h *WhatsAppHandler) DeleteInstance(w http.ResponseWriter, r *http.Request) {
	if err := h.WhatsApp.DeleteInstance(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WhatsAppHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendWhatsAppInput
	if !decodeJSON(w, r, &input) {
		return
	}
	msg, err := h.WhatsApp.Send(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Messages (GET /admin/whatsapp/messages?instance_id=&limit=)
func (h *WhatsAppHandler) Messages(w http.ResponseWriter, r *http.Request) {
	list, err := h.WhatsApp.Messages(r.Context(), r.URL.Query().Get("instance_id"), queryInt(r, "limit", 50))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
