package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/rog-store/internal/auth"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

type MockCheckout struct {
	mock.Mock
}

func (m *MockCheckout) Execute(ctx context.Context, customerID string, input usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	args := m.Called(ctx, customerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckoutOutput), args.Error(1)
}

const checkoutBody = `{"items":[{"product_id":"p1","quantity":2}],"address":{"zip_code":"01310100"},"payment_method":"PIX"}`

func checkoutRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	return req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{CustomerID: "cust-1"}))
}

func TestCheckoutHandler_Created(t *testing.T) {
	uc := new(MockCheckout)
	uc.On("Execute", mock.Anything, "cust-1", mock.MatchedBy(func(in usecase.CheckoutInput) bool {
		return in.PaymentMethod == "PIX" && len(in.Items) == 1 && in.Items[0].Quantity == 2
	})).Return(&usecase.CheckoutOutput{OrderID: "order-1", Status: "pending"}, nil)

	w := httptest.NewRecorder()
	NewCheckoutHandler(uc, zap.NewNop()).Handle(w, checkoutRequest(checkoutBody))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "order-1")
	uc.AssertExpectations(t)
}

func TestCheckoutHandler_VoucherRejected(t *testing.T) {
	uc := new(MockCheckout)
	uc.On("Execute", mock.Anything, "cust-1", mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeVoucherRejected, Message: "cupom VELHO não aplicado: expired"})

	w := httptest.NewRecorder()
	NewCheckoutHandler(uc, zap.NewNop()).Handle(w, checkoutRequest(checkoutBody))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestCheckoutHandler_InvalidJSON(t *testing.T) {
	uc := new(MockCheckout)

	w := httptest.NewRecorder()
	NewCheckoutHandler(uc, zap.NewNop()).Handle(w, checkoutRequest(`{"items":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}
