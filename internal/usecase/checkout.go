package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/integration/asaas"
	"github.com/xavierca1/rog-store/internal/pricing"
	"go.uber.org/zap"
)

type CardInput struct {
	HolderName string `json:"holder_name" validate:"required"`
	Number     string `json:"number" validate:"required,card_number"`
	Month      string `json:"month" validate:"required,card_month"`
	Year       string `json:"year" validate:"required,card_year"`
	CVV        string `json:"cvv" validate:"required,cvv"`
}

type CheckoutInput struct {
	Items           []CartLine     `json:"items" validate:"required,min=1,dive"`
	Address         entity.Address `json:"address"`
	ShippingService string         `json:"shipping_service"`
	VoucherCode     string         `json:"voucher_code" validate:"max=50"`
	PaymentMethod   string         `json:"payment_method" validate:"required,oneof=PIX BOLETO CREDIT_CARD"`
	Installments    int            `json:"installments" validate:"gte=0"`
	Card            *CardInput     `json:"card" validate:"required_if=PaymentMethod CREDIT_CARD"`
}

type CheckoutOutput struct {
	OrderID      string             `json:"order_id"`
	Status       entity.OrderStatus `json:"status"`
	Breakdown    pricing.Breakdown  `json:"breakdown"`
	Installments int                `json:"installments"`
	PaymentID    string             `json:"payment_id"`
	PaymentURL   string             `json:"payment_url"`
}

type CheckoutUseCase struct {
	Customers entity.CustomerRepositoryInterface
	Products  entity.ProductRepositoryInterface
	Orders    entity.OrderRepositoryInterface
	Vouchers  entity.VoucherRepositoryInterface
	Pricer    *Pricer
	Gateway   PaymentGateway
	Queue     EventPublisher
	logger    *zap.Logger
}

func NewCheckoutUseCase(customers entity.CustomerRepositoryInterface, products entity.ProductRepositoryInterface,
	orders entity.OrderRepositoryInterface, vouchers entity.VoucherRepositoryInterface, pricer *Pricer,
	gateway PaymentGateway, queue EventPublisher, logger *zap.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		Customers: customers,
		Products:  products,
		Orders:    orders,
		Vouchers:  vouchers,
		Pricer:    pricer,
		Gateway:   gateway,
		Queue:     queue,
		logger:    logger,
	}
}

func (uc *CheckoutUseCase) Execute(ctx context.Context, customerID string, input CheckoutInput) (*CheckoutOutput, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	customer, err := uc.Customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, translate(err)
	}

	priced, voucher, err := uc.Pricer.Price(ctx, CartPriceInput{
		Items:           input.Items,
		ZipCode:         input.Address.ZipCode,
		ShippingService: input.ShippingService,
		VoucherCode:     input.VoucherCode,
		PaymentMethod:   input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}
	b := priced.Breakdown
	// no checkout um cupom recusado é erro: o cliente esperava o desconto
	if b.VoucherRejection != "" {
		return nil, &DomainError{
			Code:    CodeVoucherRejected,
			Message: fmt.Sprintf("cupom %s não aplicado: %s", b.VoucherCode, b.VoucherRejection),
		}
	}

	installments := 1
	if input.PaymentMethod == PaymentCreditCard && input.Installments > 1 {
		if input.Installments > uc.Pricer.MaxInstallments {
			return nil, invalidInput(fmt.Sprintf("máximo de %d parcelas", uc.Pricer.MaxInstallments))
		}
		installments = input.Installments
	}

	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		CustomerID:      customer.ID,
		Status:          entity.OrderPending,
		Subtotal:        b.Subtotal,
		Discount:        b.Discount,
		ShippingFee:     b.ShippingFee,
		Total:           b.Total,
		ConditionID:     b.ConditionID,
		ShippingService: priced.SelectedShipping.ServiceType,
		ShippingDays:    priced.SelectedShipping.DeliveryDays,
		Address:         input.Address,
		PaymentMethod:   input.PaymentMethod,
		Installments:    installments,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.Address.ZipCode = priced.Shipping.ZipCode
	if voucher != nil {
		order.VoucherCode = voucher.Code
	}
	for _, it := range priced.Items {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	if err := uc.place(ctx, customer, order, voucher, input.Card); err != nil {
		return nil, err
	}

	uc.publish(ctx, entity.TriggerOrderCreated, order, customer)

	return &CheckoutOutput{
		OrderID:      order.ID,
		Status:       order.Status,
		Breakdown:    b,
		Installments: installments,
		PaymentID:    order.PaymentID,
		PaymentURL:   order.PaymentURL,
	}, nil
}

// place grava o pedido e cria a cobrança. Se qualquer passo falhar, os anteriores são desfeitos.
func (uc *CheckoutUseCase) place(ctx context.Context, customer *entity.Customer, order *entity.Order, voucher *entity.Voucher, card *CardInput) error {
	tx := NewTransaction(uc.logger)

	tx.AddOperation("reserve_stock", func(ctx context.Context) error {
		return uc.reserveStock(ctx, order.Items)
	})
	tx.AddCompensation("release_stock", func(ctx context.Context) error {
		return uc.releaseStock(ctx, order.Items)
	})

	if voucher != nil {
		tx.AddOperation("use_voucher", func(ctx context.Context) error {
			return uc.Vouchers.IncrementUses(ctx, voucher.ID)
		})
		tx.AddCompensation("release_voucher", func(ctx context.Context) error {
			return uc.Vouchers.DecrementUses(ctx, voucher.ID)
		})
	}

	tx.AddOperation("create_order", func(ctx context.Context) error {
		return uc.Orders.Create(ctx, order)
	})
	tx.AddCompensation("delete_order", func(ctx context.Context) error {
		return uc.Orders.Delete(ctx, order.ID)
	})

	tx.AddOperation("ensure_gateway_customer", func(ctx context.Context) error {
		return uc.ensureGatewayCustomer(ctx, customer, order.Address)
	})

	tx.AddOperation("create_payment", func(ctx context.Context) error {
		payment, err := uc.Gateway.CreatePayment(ctx, paymentInput(customer, order, card))
		if err != nil {
			return &TechnicalError{Code: CodeGateway, Message: "erro ao gerar cobrança", Err: err}
		}
		order.PaymentID = payment.ID
		order.PaymentURL = payment.InvoiceURL
		return nil
	})
	// sem isso a cobrança continuaria pagável para um pedido que não existe mais
	tx.AddCompensation("cancel_payment", func(ctx context.Context) error {
		return uc.Gateway.DeletePayment(ctx, order.PaymentID)
	})

	tx.AddOperation("store_payment", func(ctx context.Context) error {
		return uc.Orders.UpdatePayment(ctx, order.ID, order.PaymentID, order.PaymentURL)
	})

	if err := tx.Execute(ctx); err != nil {
		uc.logger.Error("❌ checkout falhou", zap.String("order_id", order.ID), zap.Error(err))
		return translate(err)
	}

	uc.logger.Info("🛒 pedido criado",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customer.ID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("payment_method", order.PaymentMethod),
	)
	return nil
}

func (uc *CheckoutUseCase) reserveStock(ctx context.Context, items []entity.OrderItem) error {
	for i, it := range items {
		if err := uc.Products.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			if rerr := uc.releaseStock(ctx, items[:i]); rerr != nil {
				uc.logger.Error("falha ao devolver estoque parcial", zap.Error(rerr))
			}
			if errors.Is(err, entity.ErrOutOfStock) {
				return &DomainError{Code: CodeOutOfStock, Message: "estoque insuficiente para " + it.Name, Err: err}
			}
			return err
		}
	}
	return nil
}

func (uc *CheckoutUseCase) releaseStock(ctx context.Context, items []entity.OrderItem) error {
	var errs []error
	for _, it := range items {
		if err := uc.Products.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (uc *CheckoutUseCase) ensureGatewayCustomer(ctx context.Context, c *entity.Customer, addr entity.Address) error {
	if c.GatewayID != "" {
		return nil
	}
	id, err := uc.Gateway.CreateCustomer(ctx, asaas.CreateCustomerInput{
		Name:          c.Name,
		Email:         c.Email,
		CpfCnpj:       c.CPF,
		Phone:         c.Phone,
		PostalCode:    addr.ZipCode,
		AddressNumber: addr.Number,
	})
	if err != nil {
		return &TechnicalError{Code: CodeGateway, Message: "erro ao cadastrar cliente no gateway", Err: err}
	}
	c.GatewayID = id
	if err := uc.Customers.UpdateGatewayID(ctx, c.ID, id); err != nil {
		// não bloqueia a venda: na próxima compra o cliente é recriado
		uc.logger.Warn("falha ao salvar gateway_id", zap.String("customer_id", c.ID), zap.Error(err))
	}
	return nil
}

func paymentInput(c *entity.Customer, o *entity.Order, card *CardInput) asaas.PaymentInput {
	in := asaas.PaymentInput{
		CustomerID:   c.GatewayID,
		OrderID:      o.ID,
		BillingType:  o.PaymentMethod,
		Value:        o.Total,
		Installments: o.Installments,
		DueInDays:    1,
		Description:  fmt.Sprintf("Pedido %s - ROG Membranas", shortID(o.ID)),
	}
	if o.PaymentMethod == PaymentBoleto {
		in.DueInDays = 3
	}
	if card != nil && o.PaymentMethod == PaymentCreditCard {
		in.Card = &asaas.CardInput{
			HolderName:       card.HolderName,
			Number:           nonDigit.ReplaceAllString(card.Number, ""),
			ExpiryMonth:      card.Month,
			ExpiryYear:       card.Year,
			CCV:              card.CVV,
			HolderEmail:      c.Email,
			HolderCpfCnpj:    c.CPF,
			HolderPostalCode: o.Address.ZipCode,
			HolderAddressNum: o.Address.Number,
			HolderPhone:      c.Phone,
		}
	}
	return in
}

func (uc *CheckoutUseCase) publish(ctx context.Context, trigger string, o *entity.Order, c *entity.Customer) {
	if uc.Queue == nil {
		return
	}
	if err := uc.Queue.Publish(ctx, orderEvent(trigger, o, c)); err != nil {
		uc.logger.Error("❌ falha ao publicar evento", zap.String("type", trigger), zap.String("order_id", o.ID), zap.Error(err))
	}
}

func orderEvent(trigger string, o *entity.Order, c *entity.Customer) entity.Event {
	data := map[string]any{
		"order_id":       o.ID,
		"order_short_id": shortID(o.ID),
		"status":         string(o.Status),
		"total":          o.Total.StringFixed(2),
		"payment_method": o.PaymentMethod,
		"payment_url":    o.PaymentURL,
		"customer_id":    o.CustomerID,
	}
	if c != nil {
		data["name"] = c.Name
		data["email"] = c.Email
		data["phone"] = c.Phone
	}
	return entity.NewEvent(trigger, data)
}

func validateCheckout(input CheckoutInput) error {
	var errs ValidationErrors
	if err := Validate(input); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	a := input.Address
	for field, v := range map[string]string{
		"address.street": a.Street, "address.number": a.Number, "address.city": a.City, "address.state": a.State,
	} {
		if v == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}
	if !isValidZipCode(a.ZipCode) {
		errs = append(errs, ValidationError{Field: "address.zip_code", Message: "must be a valid zip code (XXXXX-XXX)"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
