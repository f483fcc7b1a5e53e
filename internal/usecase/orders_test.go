package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

func TestOrderGet_OtherCustomerLooksMissing(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("FindByID", mock.Anything, "o1").Return(&entity.Order{ID: "o1", CustomerID: "cust-2"}, nil)
	uc := NewOrderUseCase(repo, nil, zap.NewNop())

	_, err := uc.Get(context.Background(), "o1", "cust-1")
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotFound, de.Code)

	o, err := uc.Get(context.Background(), "o1", "")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
}

func TestOrderUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.OrderStatus
		to      entity.OrderStatus
		wantErr string
	}{
		{"pending to processing", entity.OrderPending, entity.OrderProcessing, ""},
		{"processing to completed", entity.OrderProcessing, entity.OrderCompleted, ""},
		{"completed is final", entity.OrderCompleted, entity.OrderCancelled, CodeInvalidState},
		{"pending cannot skip to completed", entity.OrderPending, entity.OrderCompleted, CodeInvalidState},
		{"unknown status", entity.OrderPending, "shipped", CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			repo.On("FindByID", mock.Anything, "o1").Return(&entity.Order{ID: "o1", Status: tt.from}, nil)
			repo.On("UpdateStatus", mock.Anything, "o1", tt.from, tt.to).Return(true, nil)
			uc := NewOrderUseCase(repo, nil, zap.NewNop())

			o, err := uc.UpdateStatus(context.Background(), "o1", tt.to)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
				return
			}
			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantErr, de.Code)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderCancelRestoresStock(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	order := pendingOrder()
	order.VoucherCode = ""

	orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, order.ID, entity.OrderPending, entity.OrderCancelled).Return(true, nil)
	products.On("IncrementStock", mock.Anything, "p1", 2).Return(nil)

	payments := NewPaymentUseCase(orders, products, nil, nil, nil, nil, 0, zap.NewNop())
	uc := NewOrderUseCase(orders, payments, zap.NewNop())

	_, err := uc.UpdateStatus(context.Background(), order.ID, entity.OrderCancelled)
	require.NoError(t, err)
	products.AssertExpectations(t)
}

func TestOrderUpdateStatus_ChangedMeanwhileIsConflict(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	order := pendingOrder()

	orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	// a expiração cancelou o pedido entre a leitura e a escrita
	orders.On("UpdateStatus", mock.Anything, order.ID, entity.OrderPending, entity.OrderCancelled).Return(false, nil)

	payments := NewPaymentUseCase(orders, products, nil, nil, nil, nil, 0, zap.NewNop())
	uc := NewOrderUseCase(orders, payments, zap.NewNop())

	_, err := uc.UpdateStatus(context.Background(), order.ID, entity.OrderCancelled)

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeConflict, de.Code)
	products.AssertNotCalled(t, "IncrementStock", mock.Anything, mock.Anything, mock.Anything)
}
