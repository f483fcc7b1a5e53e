package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"github.com/xavierca1/rog-store/internal/shipping"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	customers  *MockCustomerRepository
	products   *MockProductRepository
	orders     *MockOrderRepository
	vouchers   *MockVoucherRepository
	conditions *MockConditionRepository
	quoter     *MockQuoter
	gateway    *MockPaymentGateway
	queue      *MockPublisher
	uc         *CheckoutUseCase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		customers:  new(MockCustomerRepository),
		products:   new(MockProductRepository),
		orders:     new(MockOrderRepository),
		vouchers:   new(MockVoucherRepository),
		conditions: new(MockConditionRepository),
		quoter:     new(MockQuoter),
		gateway:    new(MockPaymentGateway),
		queue:      new(MockPublisher),
	}
	pricer := NewPricer(f.products, f.vouchers, f.conditions, f.quoter, 6, zap.NewNop())
	f.uc = NewCheckoutUseCase(f.customers, f.products, f.orders, f.vouchers, pricer, f.gateway, f.queue, zap.NewNop())

	f.customers.On("FindByID", mock.Anything, "cust-1").Return(&entity.Customer{
		ID: "cust-1", Name: "Dra. Ana", Email: "ana@clinica.com", CPF: "52998224725", Phone: "11987654321",
	}, nil)
	f.products.On("FindByIDs", mock.Anything, []string{"p1"}).Return([]*entity.Product{
		{ID: "p1", Name: "Membrana ROG 15x20", Price: decimal.NewFromInt(100), Stock: 10, Active: true, WeightGrams: 50},
	}, nil)
	f.conditions.On("List", mock.Anything, true).Return([]*entity.CommercialCondition{}, nil)
	f.quoter.On("Quote", mock.Anything, "01310-100", mock.Anything).Return(&shipping.Result{
		ZipCode: "01310100",
		Source:  "table",
		Options: []entity.ShippingOption{
			{ID: "pac", ServiceType: "PAC", Name: "PAC", Rate: decimal.NewFromInt(20), DeliveryDays: 5},
			{ID: "sedex", ServiceType: "SEDEX", Name: "SEDEX", Rate: decimal.NewFromInt(35), DeliveryDays: 2},
		},
	}, nil)
	return f
}

func checkoutInput(method string) CheckoutInput {
	return CheckoutInput{
		Items: []CartLine{{ProductID: "p1", Quantity: 2}},
		Address: entity.Address{
			Street: "Av. Paulista", Number: "1000", District: "Bela Vista", City: "São Paulo", State: "SP", ZipCode: "01310-100",
		},
		ShippingService: "SEDEX",
		PaymentMethod:   method,
	}
}

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture()

	f.products.On("DecrementStock", mock.Anything, "p1", 2).Return(nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)
	f.gateway.On("CreateCustomer", mock.Anything, mock.Anything).Return("cus_asaas_1", nil)
	f.customers.On("UpdateGatewayID", mock.Anything, "cust-1", "cus_asaas_1").Return(nil)
	f.gateway.On("CreatePayment", mock.Anything, mock.MatchedBy(func(in asaas.PaymentInput) bool {
		return in.CustomerID == "cus_asaas_1" && in.BillingType == "PIX" && in.Value.Equal(decimal.NewFromInt(235)) && in.OrderID != ""
	})).Return(&asaas.PaymentResult{ID: "pay_1", Status: "PENDING", InvoiceURL: "https://asaas/i/pay_1"}, nil)
	f.orders.On("UpdatePayment", mock.Anything, mock.Anything, "pay_1", "https://asaas/i/pay_1").Return(nil)
	f.queue.On("Publish", mock.Anything, mock.MatchedBy(func(e entity.Event) bool {
		return e.Type == entity.TriggerOrderCreated && e.Get("email") == "ana@clinica.com"
	})).Return(nil)

	out, err := f.uc.Execute(context.Background(), "cust-1", checkoutInput(PaymentPix))

	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, out.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(out.Breakdown.Subtotal))
	assert.True(t, decimal.NewFromInt(35).Equal(out.Breakdown.ShippingFee))
	assert.True(t, decimal.NewFromInt(235).Equal(out.Breakdown.Total))
	assert.Equal(t, 1, out.Installments)
	assert.Equal(t, "https://asaas/i/pay_1", out.PaymentURL)
	f.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.queue.AssertExpectations(t)
}

func TestCheckout_PaymentFailureRollsBack(t *testing.T) {
	f := newCheckoutFixture()

	f.products.On("DecrementStock", mock.Anything, "p1", 2).Return(nil)
	f.products.On("IncrementStock", mock.Anything, "p1", 2).Return(nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("CreateCustomer", mock.Anything, mock.Anything).Return("cus_asaas_1", nil)
	f.customers.On("UpdateGatewayID", mock.Anything, "cust-1", "cus_asaas_1").Return(nil)
	f.gateway.On("CreatePayment", mock.Anything, mock.Anything).Return(nil, errors.New("asaas fora do ar"))

	out, err := f.uc.Execute(context.Background(), "cust-1", checkoutInput(PaymentBoleto))

	assert.Nil(t, out)
	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeGateway, te.Code)
	f.orders.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	f.products.AssertCalled(t, "IncrementStock", mock.Anything, "p1", 2)
	f.queue.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCheckout_StoringPaymentFailureCancelsCharge(t *testing.T) {
	f := newCheckoutFixture()

	f.products.On("DecrementStock", mock.Anything, "p1", 2).Return(nil)
	f.products.On("IncrementStock", mock.Anything, "p1", 2).Return(nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("CreateCustomer", mock.Anything, mock.Anything).Return("cus_asaas_1", nil)
	f.customers.On("UpdateGatewayID", mock.Anything, "cust-1", "cus_asaas_1").Return(nil)
	f.gateway.On("CreatePayment", mock.Anything, mock.Anything).
		Return(&asaas.PaymentResult{ID: "pay_9", Status: "PENDING", InvoiceURL: "https://asaas/i/pay_9"}, nil)
	f.orders.On("UpdatePayment", mock.Anything, mock.Anything, "pay_9", "https://asaas/i/pay_9").Return(errors.New("conexão perdida"))
	f.gateway.On("DeletePayment", mock.Anything, "pay_9").Return(nil)

	out, err := f.uc.Execute(context.Background(), "cust-1", checkoutInput(PaymentPix))

	assert.Nil(t, out)
	require.Error(t, err)
	f.gateway.AssertCalled(t, "DeletePayment", mock.Anything, "pay_9")
	f.orders.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	f.products.AssertCalled(t, "IncrementStock", mock.Anything, "p1", 2)
	f.queue.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCheckout_OutOfStockDuringReservation(t *testing.T) {
	f := newCheckoutFixture()
	f.products.On("DecrementStock", mock.Anything, "p1", 2).Return(entity.ErrOutOfStock)

	_, err := f.uc.Execute(context.Background(), "cust-1", checkoutInput(PaymentPix))

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeOutOfStock, de.Code)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCheckout_RejectedVoucherBlocksOrder(t *testing.T) {
	f := newCheckoutFixture()
	past := time.Now().Add(-time.Hour)
	f.vouchers.On("FindByCode", mock.Anything, "ROG10").Return(&entity.Voucher{
		ID: "v1", Code: "ROG10", DiscountType: entity.DiscountPercentage, DiscountValue: decimal.NewFromInt(10),
		Active: true, ExpiresAt: &past,
	}, nil)

	in := checkoutInput(PaymentPix)
	in.VoucherCode = "rog10"
	_, err := f.uc.Execute(context.Background(), "cust-1", in)

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeVoucherRejected, de.Code)
	assert.Contains(t, de.Message, "expired")
	f.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_VoucherUsageIsReleasedOnFailure(t *testing.T) {
	f := newCheckoutFixture()
	f.vouchers.On("FindByCode", mock.Anything, "ROG10").Return(&entity.Voucher{
		ID: "v1", Code: "ROG10", DiscountType: entity.DiscountFixed, DiscountValue: decimal.NewFromInt(30), Active: true,
	}, nil)
	f.vouchers.On("IncrementUses", mock.Anything, "v1").Return(nil)
	f.vouchers.On("DecrementUses", mock.Anything, "v1").Return(nil)
	f.products.On("DecrementStock", mock.Anything, "p1", 2).Return(nil)
	f.products.On("IncrementStock", mock.Anything, "p1", 2).Return(nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	in := checkoutInput(PaymentPix)
	in.VoucherCode = "ROG10"
	_, err := f.uc.Execute(context.Background(), "cust-1", in)

	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	f.vouchers.AssertCalled(t, "DecrementUses", mock.Anything, "v1")
	f.products.AssertCalled(t, "IncrementStock", mock.Anything, "p1", 2)
}

func TestCheckout_Validation(t *testing.T) {
	f := newCheckoutFixture()

	t.Run("card required for credit card", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), "cust-1", checkoutInput(PaymentCreditCard))
		var ve ValidationErrors
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Error(), "card")
	})

	t.Run("invalid zip", func(t *testing.T) {
		in := checkoutInput(PaymentPix)
		in.Address.ZipCode = "0131"
		_, err := f.uc.Execute(context.Background(), "cust-1", in)
		var ve ValidationErrors
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Error(), "address.zip_code")
	})

	t.Run("too many installments", func(t *testing.T) {
		in := checkoutInput(PaymentCreditCard)
		in.Installments = 12
		in.Card = &CardInput{HolderName: "ANA", Number: "4111 1111 1111 1111", Month: "12", Year: "2035", CVV: "123"}
		_, err := f.uc.Execute(context.Background(), "cust-1", in)
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, CodeInvalidInput, de.Code)
	})
}
