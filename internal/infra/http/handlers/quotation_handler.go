package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// QuotationHandler: orçamentos montados pela equipe comercial.
type QuotationHandler struct {
	Quotations *usecase.QuotationUseCase
	logger     *zap.Logger
}

func NewQuotationHandler(uc *usecase.QuotationUseCase, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{Quotations: uc, logger: logger}
}

func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.QuotationInput
	if !decodeJSON(w, r, &input) {
		return
	}
	q, err := h.Quotations.Create(r.Context(), middleware.CustomerID(r.Context()), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Quotations.List(r.Context(), r.URL.Query().Get("customer_id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Send (POST /admin/quotations/{id}/send) envia o orçamento por e-mail ao cliente.
func (h *QuotationHandler) Send(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotations.Send(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotations.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Convert (POST /admin/quotations/{id}/convert) gera o pedido e a cobrança.
func (h *QuotationHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConvertQuotationInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.Quotations.Convert(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	middleware.RecordOrderCreated(input.PaymentMethod)
	writeJSON(w, http.StatusCreated, out)
}
