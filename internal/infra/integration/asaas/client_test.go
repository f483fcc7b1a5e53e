package asaas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreatePayment_PixSendsExternalReference(t *testing.T) {
	var got createPaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("access_token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"pay_1","status":"PENDING","invoiceUrl":"https://asaas/i/pay_1"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, zap.NewNop())
	res, err := c.CreatePayment(context.Background(), PaymentInput{
		CustomerID:  "cus_1",
		OrderID:     "order-1",
		BillingType: BillingPix,
		Value:       decimal.RequireFromString("530.50"),
		DueInDays:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, "pay_1", res.ID)
	assert.Equal(t, "https://asaas/i/pay_1", res.InvoiceURL)
	assert.Equal(t, "order-1", got.ExternalReference)
	assert.Equal(t, 530.50, got.Value)
	assert.Nil(t, got.CreditCard)
}

func TestCreatePayment_CardInstallmentsUseTotalValue(t *testing.T) {
	var got createPaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"pay_2","status":"CONFIRMED"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, zap.NewNop())
	_, err := c.CreatePayment(context.Background(), PaymentInput{
		CustomerID:   "cus_1",
		OrderID:      "order-2",
		BillingType:  BillingCreditCard,
		Value:        decimal.NewFromInt(600),
		Installments: 3,
		Card:         &CardInput{HolderName: "ANA", Number: "4111111111111111"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, got.InstallmentCount)
	assert.Equal(t, 600.0, got.TotalValue)
	assert.Zero(t, got.Value)
	require.NotNil(t, got.CreditCard)
}

func TestCreateCustomer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"code":"invalid_cpfCnpj"}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, zap.NewNop())
	_, err := c.CreateCustomer(context.Background(), CreateCustomerInput{Name: "Ana"})
	assert.Error(t, err)
}

func TestDeletePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/payments/pay_1", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("access_token"))
		w.Write([]byte(`{"deleted":true,"id":"pay_1"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, zap.NewNop())
	require.NoError(t, c.DeletePayment(context.Background(), "pay_1"))
}

func TestDeletePayment_NotDeleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deleted":false,"id":"pay_1"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, zap.NewNop())
	assert.Error(t, c.DeletePayment(context.Background(), "pay_1"))
}
