package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/mail"
	"github.com/xavierca1/rog-store/internal/pricing"
	"go.uber.org/zap"
)

const defaultQuotationValidity = 15

type QuotationItemInput struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type QuotationInput struct {
	CustomerID    string               `json:"customer_id" validate:"required"`
	Items         []QuotationItemInput `json:"items" validate:"required,min=1,dive"`
	DiscountType  entity.DiscountType  `json:"discount_type" validate:"omitempty,oneof=percentage fixed shipping"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
	ShippingFee   decimal.Decimal      `json:"shipping_fee"`
	Notes         string               `json:"notes" validate:"max=2000"`
	ValidDays     int                  `json:"valid_days" validate:"gte=0,lte=180"`
}

type ConvertQuotationInput struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=PIX BOLETO"`
}

type QuotationUseCase struct {
	Repo      entity.QuotationRepositoryInterface
	Products  entity.ProductRepositoryInterface
	Customers entity.CustomerRepositoryInterface
	Checkout  *CheckoutUseCase
	Mail      EmailService
	logger    *zap.Logger
	now       func() time.Time
}

func NewQuotationUseCase(repo entity.QuotationRepositoryInterface, products entity.ProductRepositoryInterface,
	customers entity.CustomerRepositoryInterface, checkout *CheckoutUseCase, mail EmailService, logger *zap.Logger) *QuotationUseCase {
	return &QuotationUseCase{
		Repo:      repo,
		Products:  products,
		Customers: customers,
		Checkout:  checkout,
		Mail:      mail,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *QuotationUseCase) Create(ctx context.Context, createdBy string, input QuotationInput) (*entity.Quotation, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	if input.DiscountValue.IsNegative() || input.ShippingFee.IsNegative() {
		return nil, invalidInput("desconto e frete não podem ser negativos")
	}
	if input.DiscountType == entity.DiscountPercentage && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, invalidInput("percentual máximo é 100")
	}
	if _, err := uc.Customers.FindByID(ctx, input.CustomerID); err != nil {
		return nil, translate(err)
	}

	items, err := uc.loadItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	cart := make([]entity.CartItem, 0, len(items))
	for _, it := range items {
		cart = append(cart, entity.CartItem{ProductID: it.ProductID, Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	b := pricing.Quote(cart, input.DiscountType, input.DiscountValue, pricing.Round(input.ShippingFee))

	days := input.ValidDays
	if days == 0 {
		days = defaultQuotationValidity
	}
	now := uc.now()
	q := &entity.Quotation{
		ID:            uuid.New().String(),
		CustomerID:    input.CustomerID,
		CreatedBy:     createdBy,
		Status:        entity.QuotationDraft,
		Items:         items,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		Subtotal:      b.Subtotal,
		Discount:      b.Discount,
		ShippingFee:   b.ShippingFee,
		Total:         b.Total,
		Notes:         strings.TrimSpace(input.Notes),
		ValidUntil:    now.AddDate(0, 0, days),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range q.Items {
		q.Items[i].QuotationID = q.ID
	}
	if err := uc.Repo.Create(ctx, q); err != nil {
		return nil, translate(err)
	}
	uc.logger.Info("📝 orçamento criado", zap.String("quotation_id", q.ID), zap.String("total", q.Total.StringFixed(2)))
	return q, nil
}

func (uc *QuotationUseCase) loadItems(ctx context.Context, lines []QuotationItemInput) ([]entity.QuotationItem, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dbError(err)
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]entity.QuotationItem, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, notFound("produto " + l.ProductID)
		}
		price := p.Price
		if l.UnitPrice != nil {
			if l.UnitPrice.IsNegative() {
				return nil, invalidInput("preço unitário negativo para " + p.Name)
			}
			price = pricing.Round(*l.UnitPrice)
		}
		items = append(items, entity.QuotationItem{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: price,
			Quantity:  l.Quantity,
		})
	}
	return items, nil
}

func (uc *QuotationUseCase) List(ctx context.Context, customerID string) ([]*entity.Quotation, error) {
	list, err := uc.Repo.List(ctx, customerID)
	if err != nil {
		return nil, dbError(err)
	}
	if list == nil {
		list = []*entity.Quotation{}
	}
	return list, nil
}

func (uc *QuotationUseCase) Get(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return q, nil
}

// Send marca o orçamento como enviado e manda o resumo por e-mail ao cliente.
func (uc *QuotationUseCase) Send(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != entity.QuotationDraft && q.Status != entity.QuotationSent {
		return nil, &DomainError{Code: CodeInvalidState, Message: "orçamento não pode ser enviado no status " + string(q.Status)}
	}
	customer, err := uc.Customers.FindByID(ctx, q.CustomerID)
	if err != nil {
		return nil, translate(err)
	}
	moved, err := uc.Repo.ChangeStatus(ctx, q.ID, []entity.QuotationStatus{entity.QuotationDraft, entity.QuotationSent}, entity.QuotationSent)
	if err != nil {
		return nil, translate(err)
	}
	if !moved {
		return nil, &DomainError{Code: CodeInvalidState, Message: "orçamento mudou de status, recarregue"}
	}
	q.Status = entity.QuotationSent

	if uc.Mail != nil {
		if err := uc.Mail.SendQuotation(customer.Email, quotationEmailData(customer, q)); err != nil {
			uc.logger.Error("❌ falha ao enviar orçamento", zap.String("quotation_id", q.ID), zap.Error(err))
		}
	}
	return q, nil
}

func (uc *QuotationUseCase) Reject(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == entity.QuotationConverted {
		return nil, &DomainError{Code: CodeInvalidState, Message: "orçamento já convertido"}
	}
	moved, err := uc.Repo.ChangeStatus(ctx, q.ID,
		[]entity.QuotationStatus{entity.QuotationDraft, entity.QuotationSent, entity.QuotationAccepted}, entity.QuotationRejected)
	if err != nil {
		return nil, translate(err)
	}
	if !moved {
		return nil, &DomainError{Code: CodeInvalidState, Message: "orçamento já convertido"}
	}
	q.Status = entity.QuotationRejected
	return q, nil
}

// Convert transforma o orçamento enviado em pedido com os valores negociados e gera a cobrança.
func (uc *QuotationUseCase) Convert(ctx context.Context, id string, input ConvertQuotationInput) (*CheckoutOutput, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	q, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != entity.QuotationSent && q.Status != entity.QuotationAccepted {
		return nil, &DomainError{Code: CodeInvalidState, Message: "só orçamentos enviados podem virar pedido"}
	}
	if uc.now().After(q.ValidUntil) {
		return nil, &DomainError{Code: CodeInvalidState, Message: "orçamento vencido"}
	}
	customer, err := uc.Customers.FindByID(ctx, q.CustomerID)
	if err != nil {
		return nil, translate(err)
	}
	if !isValidZipCode(customer.Address.ZipCode) {
		return nil, invalidInput("cliente sem endereço de entrega cadastrado")
	}

	now := uc.now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		CustomerID:      customer.ID,
		Status:          entity.OrderPending,
		Subtotal:        q.Subtotal,
		Discount:        q.Discount,
		ShippingFee:     q.ShippingFee,
		Total:           q.Total,
		ShippingService: "quotation",
		Address:         customer.Address,
		PaymentMethod:   input.PaymentMethod,
		Installments:    1,
		QuotationID:     q.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range q.Items {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	// reserva o orçamento antes de gerar cobrança; uma segunda conversão simultânea para aqui
	claimed, err := uc.Repo.ChangeStatus(ctx, q.ID,
		[]entity.QuotationStatus{entity.QuotationSent, entity.QuotationAccepted}, entity.QuotationConverted)
	if err != nil {
		return nil, translate(err)
	}
	if !claimed {
		return nil, &DomainError{Code: CodeInvalidState, Message: "orçamento já convertido ou alterado"}
	}

	if err := uc.Checkout.place(ctx, customer, order, nil, nil); err != nil {
		if _, rerr := uc.Repo.ChangeStatus(ctx, q.ID, []entity.QuotationStatus{entity.QuotationConverted}, q.Status); rerr != nil {
			uc.logger.Error("❌ falha ao liberar orçamento", zap.String("quotation_id", q.ID), zap.Error(rerr))
		}
		return nil, err
	}
	if err := uc.Repo.UpdateStatus(ctx, q.ID, entity.QuotationConverted, order.ID); err != nil {
		// o pedido já existe; o orçamento fica desatualizado mas não perdemos a venda
		uc.logger.Error("❌ falha ao marcar orçamento convertido", zap.String("quotation_id", q.ID), zap.Error(err))
	}
	uc.Checkout.publish(ctx, entity.TriggerOrderCreated, order, customer)

	return &CheckoutOutput{
		OrderID:      order.ID,
		Status:       order.Status,
		Installments: 1,
		PaymentID:    order.PaymentID,
		PaymentURL:   order.PaymentURL,
		Breakdown: pricing.Breakdown{
			Subtotal:     q.Subtotal,
			Discount:     q.Discount,
			ShippingFee:  q.ShippingFee,
			Total:        q.Total,
			FreeShipping: q.ShippingFee.IsZero(),
		},
	}, nil
}

func quotationEmailData(c *entity.Customer, q *entity.Quotation) mail.QuotationEmailData {
	data := mail.QuotationEmailData{
		Name:        c.Name,
		QuotationID: q.ID,
		Subtotal:    q.Subtotal.StringFixed(2),
		Discount:    q.Discount.StringFixed(2),
		ShippingFee: q.ShippingFee.StringFixed(2),
		Total:       q.Total.StringFixed(2),
		Notes:       q.Notes,
		ValidUntil:  q.ValidUntil.Format("02/01/2006"),
	}
	for _, it := range q.Items {
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		data.Items = append(data.Items, mail.OrderEmailItem{Name: it.Name, Quantity: it.Quantity, Total: line.StringFixed(2)})
	}
	return data
}
