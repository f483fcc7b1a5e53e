package handlers

import (
	"net/http"

	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

type CartHandler struct {
	Cart   *usecase.CartUseCase
	logger *zap.Logger
}

func NewCartHandler(uc *usecase.CartUseCase, logger *zap.Logger) *CartHandler {
	return &CartHandler{Cart: uc, logger: logger}
}

// Price (POST /cart/price) devolve o resumo do carrinho: itens, descontos, frete e parcelas.
func (h *CartHandler) Price(w http.ResponseWriter, r *http.Request) {
	var input usecase.CartPriceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.Cart.Price(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if out.Shipping != nil {
		middleware.RecordShippingQuote(out.Shipping.Source)
	}
	if reason := out.Breakdown.VoucherRejection; reason != "" {
		middleware.RecordVoucherRejection(reason)
	}
	writeJSON(w, http.StatusOK, out)
}

// QuoteShipping (POST /shipping/quote)
func (h *CartHandler) QuoteShipping(w http.ResponseWriter, r *http.Request) {
	var input usecase.ShippingQuoteInput
	if !decodeJSON(w, r, &input) {
		return
	}
	result, err := h.Cart.QuoteShipping(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	middleware.RecordShippingQuote(result.Source)
	writeJSON(w, http.StatusOK, result)
}
