package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type paymentFixture struct {
	orders    *MockOrderRepository
	products  *MockProductRepository
	vouchers  *MockVoucherRepository
	customers *MockCustomerRepository
	processed *MockIdempotencyStore
	queue     *MockPublisher
	uc        *PaymentUseCase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		orders:    new(MockOrderRepository),
		products:  new(MockProductRepository),
		vouchers:  new(MockVoucherRepository),
		customers: new(MockCustomerRepository),
		processed: new(MockIdempotencyStore),
		queue:     new(MockPublisher),
	}
	f.uc = NewPaymentUseCase(f.orders, f.products, f.vouchers, f.customers, f.processed, f.queue, 72*time.Hour, zap.NewNop())
	return f
}

func pendingOrder() *entity.Order {
	return &entity.Order{
		ID:          "7f1c2a9e-0000-4000-8000-000000000001",
		CustomerID:  "cust-1",
		Status:      entity.OrderPending,
		Total:       decimal.NewFromInt(235),
		VoucherCode: "ROG10",
		Items:       []entity.OrderItem{{ProductID: "p1", Name: "Membrana", Quantity: 2, UnitPrice: decimal.NewFromInt(100)}},
	}
}

func webhook(event, orderID string) asaas.WebhookEvent {
	ev := asaas.WebhookEvent{ID: "evt_1", Event: event}
	ev.Payment.ID = "pay_1"
	ev.Payment.ExternalReference = orderID
	return ev
}

func TestHandleWebhook_PaymentConfirmedMovesToProcessing(t *testing.T) {
	f := newPaymentFixture()
	order := pendingOrder()

	f.processed.On("MarkProcessed", mock.Anything, "evt_1", webhookDedupTTL).Return(true, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("UpdateStatus", mock.Anything, order.ID, entity.OrderPending, entity.OrderProcessing).Return(true, nil)
	f.customers.On("FindByID", mock.Anything, "cust-1").Return(&entity.Customer{ID: "cust-1", Email: "ana@clinica.com"}, nil)
	f.queue.On("Publish", mock.Anything, mock.MatchedBy(func(e entity.Event) bool {
		return e.Type == entity.TriggerOrderPaid && e.Get("order_id") == order.ID
	})).Return(nil)

	err := f.uc.HandleWebhook(context.Background(), webhook(asaas.EventPaymentConfirmed, order.ID))

	require.NoError(t, err)
	assert.Equal(t, entity.OrderProcessing, order.Status)
	f.queue.AssertExpectations(t)
}

func TestHandleWebhook_DuplicateIsIgnored(t *testing.T) {
	f := newPaymentFixture()
	f.processed.On("MarkProcessed", mock.Anything, "evt_1", webhookDedupTTL).Return(false, nil)

	err := f.uc.HandleWebhook(context.Background(), webhook(asaas.EventPaymentReceived, "order-1"))

	require.NoError(t, err)
	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestHandleWebhook_AlreadyProcessingIsNoop(t *testing.T) {
	f := newPaymentFixture()
	order := pendingOrder()
	order.Status = entity.OrderProcessing

	f.processed.On("MarkProcessed", mock.Anything, "evt_1", webhookDedupTTL).Return(true, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	err := f.uc.HandleWebhook(context.Background(), webhook(asaas.EventPaymentReceived, order.ID))

	require.NoError(t, err)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.queue.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestHandleWebhook_FailureForgetsKey(t *testing.T) {
	f := newPaymentFixture()

	f.processed.On("MarkProcessed", mock.Anything, "evt_1", webhookDedupTTL).Return(true, nil)
	f.processed.On("Forget", mock.Anything, "evt_1").Return(nil)
	f.orders.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrNotFound)

	err := f.uc.HandleWebhook(context.Background(), webhook(asaas.EventPaymentConfirmed, "missing"))

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotFound, de.Code)
	f.processed.AssertCalled(t, "Forget", mock.Anything, "evt_1")
}

func TestHandleWebhook_OverdueCancelsAndRestores(t *testing.T) {
	f := newPaymentFixture()
	order := pendingOrder()

	f.processed.On("MarkProcessed", mock.Anything, "evt_1", webhookDedupTTL).Return(true, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("UpdateStatus", mock.Anything, order.ID, entity.OrderPending, entity.OrderCancelled).Return(true, nil)
	f.products.On("IncrementStock", mock.Anything, "p1", 2).Return(nil)
	f.vouchers.On("FindByCode", mock.Anything, "ROG10").Return(&entity.Voucher{ID: "v1", Code: "ROG10"}, nil)
	f.vouchers.On("DecrementUses", mock.Anything, "v1").Return(nil)

	err := f.uc.HandleWebhook(context.Background(), webhook(asaas.EventPaymentOverdue, order.ID))

	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, order.Status)
	f.products.AssertExpectations(t)
	f.vouchers.AssertExpectations(t)
}

func TestExpireStaleOrders(t *testing.T) {
	f := newPaymentFixture()
	a, b := pendingOrder(), pendingOrder()
	b.VoucherCode = ""

	f.orders.On("ExpirePending", mock.Anything, 72*time.Hour).Return([]*entity.Order{a, b}, nil)
	f.products.On("IncrementStock", mock.Anything, "p1", 2).Return(nil)
	f.vouchers.On("FindByCode", mock.Anything, "ROG10").Return(&entity.Voucher{ID: "v1"}, nil)
	f.vouchers.On("DecrementUses", mock.Anything, "v1").Return(nil)

	n, err := f.uc.ExpireStaleOrders(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	f.products.AssertNumberOfCalls(t, "IncrementStock", 2)
	f.vouchers.AssertNumberOfCalls(t, "DecrementUses", 1)
}

func TestHandleWebhook_PaidAfterExpiryIsIgnored(t *testing.T) {
	f := newPaymentFixture()
	order := pendingOrder()

	f.processed.On("MarkProcessed", mock.Anything, "evt_1", webhookDedupTTL).Return(true, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("UpdateStatus", mock.Anything, order.ID, entity.OrderPending, entity.OrderProcessing).Return(false, nil)

	err := f.uc.HandleWebhook(context.Background(), webhook(asaas.EventPaymentReceived, order.ID))

	require.NoError(t, err)
	f.queue.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

// memOrders aplica o UPDATE condicional como o postgres e segura cada leitura
// até que todas as leituras esperadas tenham acontecido.
type memOrders struct {
	mu     sync.Mutex
	orders map[string]entity.Order
	reads  sync.WaitGroup
}

func (m *memOrders) Create(ctx context.Context, o *entity.Order) error { return nil }
func (m *memOrders) Delete(ctx context.Context, id string) error        { return nil }

func (m *memOrders) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	m.mu.Lock()
	o, ok := m.orders[id]
	m.mu.Unlock()
	if !ok {
		return nil, entity.ErrNotFound
	}
	m.reads.Done()
	m.reads.Wait()
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return &o, nil
}

func (m *memOrders) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	return nil, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	m.orders[id] = o
	return true, nil
}

func (m *memOrders) UpdatePayment(ctx context.Context, id, paymentID, paymentURL string) error {
	return nil
}

func (m *memOrders) ExpirePending(ctx context.Context, olderThan time.Duration) ([]*entity.Order, error) {
	return nil, nil
}

func TestHandleWebhook_ConcurrentCancellationsRestoreStockOnce(t *testing.T) {
	order := pendingOrder()
	order.VoucherCode = ""
	repo := &memOrders{orders: map[string]entity.Order{order.ID: *order}}
	repo.reads.Add(2)

	products := new(MockProductRepository)
	products.On("IncrementStock", mock.Anything, "p1", 2).Return(nil)
	uc := NewPaymentUseCase(repo, products, nil, nil, nil, nil, 0, zap.NewNop())

	overdue := webhook(asaas.EventPaymentOverdue, order.ID)
	overdue.ID = "evt_overdue"
	deleted := webhook(asaas.EventPaymentDeleted, order.ID)
	deleted.ID = "evt_deleted"

	var g errgroup.Group
	for _, ev := range []asaas.WebhookEvent{overdue, deleted} {
		ev := ev
		g.Go(func() error { return uc.HandleWebhook(context.Background(), ev) })
	}
	require.NoError(t, g.Wait())

	products.AssertNumberOfCalls(t, "IncrementStock", 1)
	assert.Equal(t, entity.OrderCancelled, repo.orders[order.ID].Status)
}
