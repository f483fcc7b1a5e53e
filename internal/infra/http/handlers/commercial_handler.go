package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// CommercialHandler é o CRUD do back-office para cupons, condições comerciais e tabela de frete.
type CommercialHandler struct {
	Vouchers   *usecase.VoucherUseCase
	Conditions *usecase.ConditionUseCase
	Rates      *usecase.ShippingRateUseCase
	logger     *zap.Logger
}

func NewCommercialHandler(vouchers *usecase.VoucherUseCase, conditions *usecase.ConditionUseCase,
	rates *usecase.ShippingRateUseCase, logger *zap.Logger) *CommercialHandler {
	return &CommercialHandler{Vouchers: vouchers, Conditions: conditions, Rates: rates, logger: logger}
}

func (h *CommercialHandler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Vouchers.List(r.Context())
	h.respond(w, http.StatusOK, list, err)
}

func (h *CommercialHandler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	var input usecase.VoucherInput
	if !decodeJSON(w, r, &input) {
		return
	}
	v, err := h.Vouchers.Create(r.Context(), input)
	h.respond(w, http.StatusCreated, v, err)
}

func (h *CommercialHandler) UpdateVoucher(w http.ResponseWriter, r *http.Request) {
	var input usecase.VoucherInput
	if !decodeJSON(w, r, &input) {
		return
	}
	v, err := h.Vouchers.Update(r.Context(), chi.URLParam(r, "id"), input)
	h.respond(w, http.StatusOK, v, err)
}

func (h *CommercialHandler) DeleteVoucher(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusNoContent, nil, h.Vouchers.Delete(r.Context(), chi.URLParam(r, "id")))
}

func (h *CommercialHandler) ListConditions(w http.ResponseWriter, r *http.Request) {
	list, err := h.Conditions.List(r.Context())
	h.respond(w, http.StatusOK, list, err)
}

func (h *CommercialHandler) CreateCondition(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConditionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := h.Conditions.Create(r.Context(), input)
	h.respond(w, http.StatusCreated, c, err)
}

func (h *CommercialHandler) UpdateCondition(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConditionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := h.Conditions.Update(r.Context(), chi.URLParam(r, "id"), input)
	h.respond(w, http.StatusOK, c, err)
}

func (h *CommercialHandler) DeleteCondition(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusNoContent, nil, h.Conditions.Delete(r.Context(), chi.URLParam(r, "id")))
}

func (h *CommercialHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	list, err := h.Rates.List(r.Context())
	h.respond(w, http.StatusOK, list, err)
}

func (h *CommercialHandler) CreateRate(w http.ResponseWriter, r *http.Request) {
	var input usecase.ShippingRateInput
	if !decodeJSON(w, r, &input) {
		return
	}
	rate, err := h.Rates.Create(r.Context(), input)
	h.respond(w, http.StatusCreated, rate, err)
}

func (h *CommercialHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	var input usecase.ShippingRateInput
	if !decodeJSON(w, r, &input) {
		return
	}
	rate, err := h.Rates.Update(r.Context(), chi.URLParam(r, "id"), input)
	h.respond(w, http.StatusOK, rate, err)
}

func (h *CommercialHandler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusNoContent, nil, h.Rates.Delete(r.Context(), chi.URLParam(r, "id")))
}

func (h *CommercialHandler) respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, v)
}
