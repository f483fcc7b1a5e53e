package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("whatsapp não configurado")

// Client fala com o gateway de WhatsApp (API por instância: cada número conectado é uma instância).
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// NormalizePhone deixa só dígitos e acrescenta o DDI 55 em números nacionais.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 || len(digits) == 11 {
		return "55" + digits
	}
	return digits
}

func (c *Client) SendText(ctx context.Context, instance string, input SendMessageInput) (*SendMessageResponse, error) {
	if c.apiKey == "" || c.baseURL == "" {
		c.logger.Warn("⚠️ WhatsApp: WHATSAPP_API_URL ou WHATSAPP_API_KEY não configurados")
		return nil, ErrNotConfigured
	}

	payload := sendTextRequest{Number: NormalizePhone(input.PhoneNumber), Text: input.Text}
	var result SendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/message/sendText/"+instance, payload, &result); err != nil {
		return nil, err
	}

	c.logger.Info("✅ WhatsApp: Mensagem enviada", zap.String("instance", instance), zap.String("to", payload.Number))
	return &result, nil
}

// CreateInstance registra uma nova instância e devolve o QR code para parear.
func (c *Client) CreateInstance(ctx context.Context, instance string) (*CreateInstanceResponse, error) {
	payload := createInstanceRequest{InstanceName: instance, QRCode: true, Integration: "WHATSAPP-BAILEYS"}
	var result CreateInstanceResponse
	if err := c.do(ctx, http.MethodPost, "/instance/create", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConnectionState devolve "open", "close" ou "connecting".
func (c *Client) ConnectionState(ctx context.Context, instance string) (string, error) {
	var result connectionStateResponse
	if err := c.do(ctx, http.MethodGet, "/instance/connectionState/"+instance, nil, &result); err != nil {
		return "", err
	}
	return result.Instance.State, nil
}

func (c *Client) Logout(ctx context.Context, instance string) error {
	return c.do(ctx, http.MethodDelete, "/instance/logout/"+instance, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("❌ WhatsApp: Erro na requisição", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("❌ WhatsApp: API retornou erro",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
