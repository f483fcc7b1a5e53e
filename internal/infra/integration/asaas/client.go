package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// CreateCustomer: Cria o cliente no Asaas e retorna o ID (cus_xxxx)
func (c *Client) CreateCustomer(ctx context.Context, input CreateCustomerInput) (string, error) {
	payload := createCustomerRequest{
		Name:                 input.Name,
		Email:                input.Email,
		CpfCnpj:              input.CpfCnpj,
		Phone:                input.Phone,
		MobilePhone:          input.Phone,
		PostalCode:           input.PostalCode,
		AddressNumber:        input.AddressNumber,
		NotificationDisabled: true, // os emails saem pela loja
	}

	var response customerResponse
	if err := c.post(ctx, "/customers", payload, &response); err != nil {
		return "", fmt.Errorf("erro criar cliente asaas: %w", err)
	}
	return response.ID, nil
}

// CreatePayment cria uma cobrança avulsa para o pedido. externalReference = ID do pedido,
// é o que volta no webhook.
func (c *Client) CreatePayment(ctx context.Context, input PaymentInput) (*PaymentResult, error) {
	payload := createPaymentRequest{
		Customer:          input.CustomerID,
		BillingType:       input.BillingType,
		Value:             input.Value.InexactFloat64(),
		DueDate:           time.Now().AddDate(0, 0, input.DueInDays).Format("2006-01-02"),
		Description:       input.Description,
		ExternalReference: input.OrderID,
	}

	if input.BillingType == BillingCreditCard && input.Installments > 1 {
		payload.InstallmentCount = input.Installments
		payload.TotalValue = payload.Value
		payload.Value = 0
	}
	if input.Card != nil {
		payload.CreditCard = &creditCard{
			HolderName:  input.Card.HolderName,
			Number:      input.Card.Number,
			ExpiryMonth: input.Card.ExpiryMonth,
			ExpiryYear:  input.Card.ExpiryYear,
			CCV:         input.Card.CCV,
		}
		payload.CreditCardHolderInfo = &creditCardHolderInfo{
			Name:          input.Card.HolderName,
			Email:         input.Card.HolderEmail,
			CpfCnpj:       input.Card.HolderCpfCnpj,
			PostalCode:    input.Card.HolderPostalCode,
			AddressNumber: input.Card.HolderAddressNum,
			Phone:         input.Card.HolderPhone,
			MobilePhone:   input.Card.HolderPhone,
		}
	}

	var response paymentResponse
	if err := c.post(ctx, "/payments", payload, &response); err != nil {
		return nil, fmt.Errorf("erro criar cobrança asaas: %w", err)
	}

	return &PaymentResult{
		ID:         response.ID,
		Status:     response.Status,
		InvoiceURL: response.InvoiceURL,
	}, nil
}

// DeletePayment cancela uma cobrança ainda não paga. Usado para desfazer um checkout que falhou depois da cobrança.
func (c *Client) DeletePayment(ctx context.Context, paymentID string) error {
	var response struct {
		Deleted bool   `json:"deleted"`
		ID      string `json:"id"`
	}
	if err := c.do(ctx, http.MethodDelete, "/payments/"+paymentID, nil, &response); err != nil {
		return fmt.Errorf("erro ao cancelar cobrança asaas: %w", err)
	}
	if !response.Deleted {
		return fmt.Errorf("asaas não removeu a cobrança %s", paymentID)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("erro ao gerar json: %w", err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro na conexão com asaas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("❌ ERRO API ASAAS",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("api asaas rejeitou (status %d)", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro ao ler resposta asaas: %w", err)
	}
	return nil
}

// setHeaders centraliza os headers obrigatórios
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ROGStore/1.0")
}
