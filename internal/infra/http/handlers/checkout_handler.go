package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

type CheckoutExecutor interface {
	Execute(ctx context.Context, customerID string, input usecase.CheckoutInput) (*usecase.CheckoutOutput, error)
}

type CheckoutHandler struct {
	Checkout CheckoutExecutor
	logger   *zap.Logger
}

func NewCheckoutHandler(uc CheckoutExecutor, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Checkout: uc, logger: logger}
}

// Handle (POST /checkout)
func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CheckoutInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.Checkout.Execute(r.Context(), middleware.CustomerID(r.Context()), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	middleware.RecordOrderCreated(input.PaymentMethod)
	writeJSON(w, http.StatusCreated, output)
}
