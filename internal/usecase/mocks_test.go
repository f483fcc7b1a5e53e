package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"github.com/xavierca1/rog-store/internal/infra/integration/whatsapp"
	"github.com/xavierca1/rog-store/internal/infra/mail"
	"github.com/xavierca1/rog-store/internal/shipping"
)

// MockCustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) UpdateGatewayID(ctx context.Context, customerID, gatewayID string) error {
	return m.Called(ctx, customerID, gatewayID).Error(0)
}

func (m *MockCustomerRepository) CheckDuplicity(ctx context.Context, email, cpf string) (bool, error) {
	args := m.Called(ctx, email, cpf)
	return args.Bool(0), args.Error(1)
}

// MockProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *MockProductRepository) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

// MockOrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *entity.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) UpdatePayment(ctx context.Context, id, paymentID, paymentURL string) error {
	return m.Called(ctx, id, paymentID, paymentURL).Error(0)
}

func (m *MockOrderRepository) ExpirePending(ctx context.Context, olderThan time.Duration) ([]*entity.Order, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

// MockVoucherRepository
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) Create(ctx context.Context, v *entity.Voucher) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVoucherRepository) Update(ctx context.Context, v *entity.Voucher) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVoucherRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVoucherRepository) FindByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) List(ctx context.Context) ([]*entity.Voucher, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) IncrementUses(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVoucherRepository) DecrementUses(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockConditionRepository
type MockConditionRepository struct {
	mock.Mock
}

func (m *MockConditionRepository) Create(ctx context.Context, c *entity.CommercialCondition) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConditionRepository) Update(ctx context.Context, c *entity.CommercialCondition) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConditionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockConditionRepository) FindByID(ctx context.Context, id string) (*entity.CommercialCondition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommercialCondition), args.Error(1)
}

func (m *MockConditionRepository) List(ctx context.Context, activeOnly bool) ([]*entity.CommercialCondition, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CommercialCondition), args.Error(1)
}

// MockAutomationRepository
type MockAutomationRepository struct {
	mock.Mock
}

func (m *MockAutomationRepository) Create(ctx context.Context, f *entity.AutomationFlow) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockAutomationRepository) Update(ctx context.Context, f *entity.AutomationFlow) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockAutomationRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAutomationRepository) FindByID(ctx context.Context, id string) (*entity.AutomationFlow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AutomationFlow), args.Error(1)
}

func (m *MockAutomationRepository) List(ctx context.Context) ([]*entity.AutomationFlow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AutomationFlow), args.Error(1)
}

func (m *MockAutomationRepository) ListActiveByTrigger(ctx context.Context, trigger string) ([]*entity.AutomationFlow, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AutomationFlow), args.Error(1)
}

// MockWhatsAppRepository
type MockWhatsAppRepository struct {
	mock.Mock
}

func (m *MockWhatsAppRepository) CreateInstance(ctx context.Context, i *entity.WhatsAppInstance) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockWhatsAppRepository) ListInstances(ctx context.Context) ([]*entity.WhatsAppInstance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.WhatsAppInstance), args.Error(1)
}

func (m *MockWhatsAppRepository) FindInstance(ctx context.Context, id string) (*entity.WhatsAppInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsAppInstance), args.Error(1)
}

func (m *MockWhatsAppRepository) FindDefaultInstance(ctx context.Context) (*entity.WhatsAppInstance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsAppInstance), args.Error(1)
}

func (m *MockWhatsAppRepository) UpdateInstanceStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockWhatsAppRepository) DeleteInstance(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWhatsAppRepository) LogMessage(ctx context.Context, msg *entity.WhatsAppMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockWhatsAppRepository) ListMessages(ctx context.Context, instanceID string, limit int) ([]*entity.WhatsAppMessage, error) {
	args := m.Called(ctx, instanceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.WhatsAppMessage), args.Error(1)
}

// MockPaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, input asaas.CreateCustomerInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) CreatePayment(ctx context.Context, input asaas.PaymentInput) (*asaas.PaymentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asaas.PaymentResult), args.Error(1)
}

func (m *MockPaymentGateway) DeletePayment(ctx context.Context, paymentID string) error {
	return m.Called(ctx, paymentID).Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event entity.Event) error {
	return m.Called(ctx, event).Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOrderConfirmation(to string, data mail.OrderEmailData) error {
	return m.Called(to, data).Error(0)
}

func (m *MockEmailService) SendPaymentConfirmed(to string, data mail.OrderEmailData) error {
	return m.Called(to, data).Error(0)
}

func (m *MockEmailService) SendTicketReply(to string, data mail.TicketReplyData) error {
	return m.Called(to, data).Error(0)
}

func (m *MockEmailService) SendQuotation(to string, data mail.QuotationEmailData) error {
	return m.Called(to, data).Error(0)
}

func (m *MockEmailService) Send(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}

// MockWhatsAppGateway
type MockWhatsAppGateway struct {
	mock.Mock
}

func (m *MockWhatsAppGateway) SendText(ctx context.Context, instance string, input whatsapp.SendMessageInput) (*whatsapp.SendMessageResponse, error) {
	args := m.Called(ctx, instance, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.SendMessageResponse), args.Error(1)
}

func (m *MockWhatsAppGateway) CreateInstance(ctx context.Context, instance string) (*whatsapp.CreateInstanceResponse, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.CreateInstanceResponse), args.Error(1)
}

func (m *MockWhatsAppGateway) ConnectionState(ctx context.Context, instance string) (string, error) {
	args := m.Called(ctx, instance)
	return args.String(0), args.Error(1)
}

func (m *MockWhatsAppGateway) Logout(ctx context.Context, instance string) error {
	return m.Called(ctx, instance).Error(0)
}

// MockQuoter
type MockQuoter struct {
	mock.Mock
}

func (m *MockQuoter) Quote(ctx context.Context, zip string, items []entity.CartItem) (*shipping.Result, error) {
	args := m.Called(ctx, zip, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Result), args.Error(1)
}

// MockIdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}
