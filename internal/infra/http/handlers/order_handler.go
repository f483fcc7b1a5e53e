package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Orders *usecase.OrderUseCase
	logger *zap.Logger
}

func NewOrderHandler(uc *usecase.OrderUseCase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{Orders: uc, logger: logger}
}

// Mine (GET /orders)
func (h *OrderHandler) Mine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListByCustomer(r.Context(), middleware.CustomerID(r.Context()), queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetMine (GET /orders/{id})
func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"), middleware.CustomerID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// List (GET /admin/orders?status=&customer_id=)
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.Orders.List(r.Context(), entity.OrderFilter{
		CustomerID: q.Get("customer_id"),
		Status:     entity.OrderStatus(q.Get("status")),
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"), "")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// UpdateStatus (PATCH /admin/orders/{id}/status)
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status entity.OrderStatus `json:"status"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	o, err := h.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), input.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
