package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"go.uber.org/zap"
)

type PaymentEventHandler interface {
	HandleWebhook(ctx context.Context, event asaas.WebhookEvent) error
}

type WebhookHandler struct {
	Payments PaymentEventHandler
	Secret   string
	logger   *zap.Logger
}

func NewWebhookHandler(payments PaymentEventHandler, secret string, logger *zap.Logger) *WebhookHandler {
	if secret == "" {
		logger.Warn("⚠️ ASAAS_WEBHOOK_SECRET vazio: webhooks sem verificação de assinatura")
	}
	return &WebhookHandler{Payments: payments, Secret: secret, logger: logger}
}

// Handle (POST /webhook/asaas). Erro ao aplicar devolve 500 para o Asaas reenviar.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "corpo inválido")
		return
	}

	if !h.authorized(r, body) {
		h.logger.Warn("🔒 webhook com assinatura inválida", zap.String("ip", middleware.ClientIP(r)))
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "assinatura inválida")
		return
	}

	var event asaas.WebhookEvent
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	if err := h.Payments.HandleWebhook(r.Context(), event); err != nil {
		middleware.RecordIntegrationError("asaas_webhook")
		writeError(w, h.logger, err)
		return
	}

	switch event.Event {
	case asaas.EventPaymentReceived, asaas.EventPaymentConfirmed:
		middleware.RecordPayment(event.Event)
	}
	w.WriteHeader(http.StatusOK)
}

// authorized aceita X-Asaas-Signature = sha256(body+secret) em hex ou o token fixo em asaas-access-token.
func (h *WebhookHandler) authorized(r *http.Request, body []byte) bool {
	if h.Secret == "" {
		return true
	}
	if token := r.Header.Get("asaas-access-token"); token != "" {
		return subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) == 1
	}
	sum := sha256.Sum256(append(append([]byte{}, body...), h.Secret...))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Asaas-Signature")), []byte(expected)) == 1
}
