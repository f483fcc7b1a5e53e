// Package carrier consulta a função externa de cotação de frete.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("CARRIER_URL não configurada")

type Client struct {
	url     string
	token   string
	retries int
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(url, token string, retries int, timeout time.Duration, logger *zap.Logger) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		url:     url,
		token:   token,
		retries: retries,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type quoteItem struct {
	ProductID   string  `json:"id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"insurance_value"`
	WeightGrams int     `json:"weight"`
}

type quoteRequest struct {
	ZipCode string      `json:"zipCode"`
	Items   []quoteItem `json:"items"`
}

type quoteResponseItem struct {
	ID           any             `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DeliveryTime int             `json:"delivery_time"`
	ServiceType  string          `json:"service_type"`
	Error        string          `json:"error,omitempty"`
}

// Quote devolve as opções da transportadora. Só erros de transporte são repetidos;
// uma resposta HTTP de erro falha na hora.
func (c *Client) Quote(ctx context.Context, zip string, items []entity.CartItem) ([]entity.ShippingOption, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	payload := quoteRequest{ZipCode: zip}
	for _, it := range items {
		payload.Items = append(payload.Items, quoteItem{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			WeightGrams: it.WeightGrams,
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err = c.http.Do(req)
		if err == nil {
			break
		}
		if attempt >= c.retries || ctx.Err() != nil {
			return nil, fmt.Errorf("erro na conexão com a transportadora: %w", err)
		}
		c.logger.Warn("transportadora indisponível, tentando de novo", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transportadora retornou status %d: %s", resp.StatusCode, raw)
	}

	var result []quoteResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("erro ao ler cotação: %w", err)
	}

	options := make([]entity.ShippingOption, 0, len(result))
	for _, r := range result {
		if r.Error != "" || r.Price.IsZero() {
			continue
		}
		serviceType := r.ServiceType
		if serviceType == "" {
			serviceType = r.Name
		}
		options = append(options, entity.ShippingOption{
			ID:           fmt.Sprint(r.ID),
			Rate:         r.Price,
			DeliveryDays: r.DeliveryTime,
			ServiceType:  serviceType,
			Name:         r.Name,
			ZipCode:      zip,
		})
	}
	if len(options) == 0 {
		return nil, errors.New("transportadora não retornou opções")
	}
	return options, nil
}
