package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/pricing"
	"github.com/xavierca1/rog-store/internal/shipping"
	"go.uber.org/zap"
)

const (
	PaymentPix        = "PIX"
	PaymentBoleto     = "BOLETO"
	PaymentCreditCard = "CREDIT_CARD"
)

type CartLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=999"`
}

type CartPriceInput struct {
	Items           []CartLine `json:"items" validate:"required,min=1,dive"`
	ZipCode         string     `json:"zip_code" validate:"omitempty,zipcode"`
	ShippingService string     `json:"shipping_service"`
	VoucherCode     string     `json:"voucher_code" validate:"max=50"`
	PaymentMethod   string     `json:"payment_method" validate:"omitempty,oneof=PIX BOLETO CREDIT_CARD"`
}

type CartPriceOutput struct {
	Items            []entity.CartItem      `json:"items"`
	Breakdown        pricing.Breakdown      `json:"breakdown"`
	Shipping         *shipping.Result       `json:"shipping,omitempty"`
	SelectedShipping *entity.ShippingOption `json:"selected_shipping,omitempty"`
	Installments     []pricing.Installment  `json:"installments"`
}

// Pricer junta catálogo, frete, condições e cupom; é usado pelo carrinho, pelo checkout e pela validação de cupom.
type Pricer struct {
	Products        entity.ProductRepositoryInterface
	Vouchers        entity.VoucherRepositoryInterface
	Conditions      entity.CommercialConditionRepositoryInterface
	Shipping        ShippingQuoter
	MaxInstallments int
	logger          *zap.Logger
	now             func() time.Time
}

func NewPricer(products entity.ProductRepositoryInterface, vouchers entity.VoucherRepositoryInterface,
	conditions entity.CommercialConditionRepositoryInterface, quoter ShippingQuoter, maxInstallments int, logger *zap.Logger) *Pricer {
	return &Pricer{
		Products:        products,
		Vouchers:        vouchers,
		Conditions:      conditions,
		Shipping:        quoter,
		MaxInstallments: maxInstallments,
		logger:          logger,
		now:             time.Now,
	}
}

// LoadItems resolve as linhas do carrinho com o preço atual do catálogo.
// Produto inativo ou sem estoque suficiente é erro de domínio.
func (p *Pricer) LoadItems(ctx context.Context, lines []CartLine) ([]entity.CartItem, error) {
	quantities := map[string]int{}
	var ids []string
	for _, l := range lines {
		if _, ok := quantities[l.ProductID]; !ok {
			ids = append(ids, l.ProductID)
		}
		quantities[l.ProductID] += l.Quantity
	}

	products, err := p.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dbError(err)
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, prod := range products {
		byID[prod.ID] = prod
	}

	items := make([]entity.CartItem, 0, len(ids))
	for _, id := range ids {
		prod, ok := byID[id]
		if !ok || !prod.Active {
			return nil, notFound("produto " + id)
		}
		qty := quantities[id]
		if prod.Stock < qty {
			return nil, &DomainError{
				Code:    CodeOutOfStock,
				Message: fmt.Sprintf("estoque insuficiente para %s (disponível: %d)", prod.Name, prod.Stock),
				Err:     entity.ErrOutOfStock,
			}
		}
		items = append(items, entity.CartItem{
			ProductID:   prod.ID,
			Name:        prod.Name,
			Category:    prod.Category,
			UnitPrice:   prod.Price,
			Quantity:    qty,
			WeightGrams: prod.WeightGrams,
		})
	}
	return items, nil
}

// SelectShipping cota o CEP e escolhe o serviço pedido (ou o mais barato, que vem primeiro).
func (p *Pricer) SelectShipping(ctx context.Context, zip, service string, items []entity.CartItem) (*shipping.Result, *entity.ShippingOption, error) {
	result, err := p.Shipping.Quote(ctx, zip, items)
	if err != nil {
		return nil, nil, translate(err)
	}
	if len(result.Options) == 0 {
		return result, nil, &TechnicalError{Code: "SHIPPING_ERROR", Message: "nenhuma opção de frete disponível"}
	}
	if service == "" {
		opt := result.Options[0]
		return result, &opt, nil
	}
	opt, ok := result.Find(service)
	if !ok {
		return result, nil, invalidInput("serviço de frete indisponível para o CEP: " + service)
	}
	return result, &opt, nil
}

// FindVoucher devolve (nil, nil) para código vazio e (nil, ErrVoucherNotFound) para código inexistente.
func (p *Pricer) FindVoucher(ctx context.Context, code string) (*entity.Voucher, error) {
	code = entity.NormalizeVoucherCode(code)
	if code == "" {
		return nil, nil
	}
	v, err := p.Vouchers.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrVoucherNotFound) || errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrVoucherNotFound
		}
		return nil, dbError(err)
	}
	return v, nil
}

func (p *Pricer) activeConditions(ctx context.Context) []*entity.CommercialCondition {
	if p.Conditions == nil {
		return nil
	}
	conds, err := p.Conditions.List(ctx, true)
	if err != nil {
		// sem condições o preço continua correto, só sem o desconto automático
		p.logger.Warn("falha ao carregar condições comerciais", zap.Error(err))
		return nil
	}
	return conds
}

func (p *Pricer) Price(ctx context.Context, input CartPriceInput) (*CartPriceOutput, *entity.Voucher, error) {
	if err := Validate(input); err != nil {
		return nil, nil, err
	}

	items, err := p.LoadItems(ctx, input.Items)
	if err != nil {
		return nil, nil, err
	}

	out := &CartPriceOutput{Items: items}
	pin := pricing.Input{
		Items:         items,
		PaymentMethod: strings.ToUpper(input.PaymentMethod),
		Conditions:    p.activeConditions(ctx),
		Now:           p.now(),
	}

	if input.ZipCode != "" {
		result, opt, err := p.SelectShipping(ctx, input.ZipCode, input.ShippingService, items)
		if err != nil {
			return nil, nil, err
		}
		out.Shipping = result
		out.SelectedShipping = opt
		pin.ShippingFee = opt.Rate
	}

	voucher, err := p.FindVoucher(ctx, input.VoucherCode)
	if err != nil && !errors.Is(err, entity.ErrVoucherNotFound) {
		return nil, nil, err
	}
	pin.Voucher = voucher

	out.Breakdown = pricing.Calculate(pin)
	if errors.Is(err, entity.ErrVoucherNotFound) {
		out.Breakdown.VoucherCode = entity.NormalizeVoucherCode(input.VoucherCode)
		out.Breakdown.VoucherRejection = pricing.RejectionReason(err)
	}
	out.Installments = pricing.Installments(out.Breakdown.Total, p.maxInstallments(pin.PaymentMethod))

	if !out.Breakdown.VoucherApplied {
		voucher = nil
	}
	return out, voucher, nil
}

// Parcelamento só no cartão; PIX e boleto são à vista.
func (p *Pricer) maxInstallments(method string) int {
	if method != "" && method != PaymentCreditCard {
		return 1
	}
	return p.MaxInstallments
}

type CartUseCase struct {
	Pricer *Pricer
}

func NewCartUseCase(pricer *Pricer) *CartUseCase {
	return &CartUseCase{Pricer: pricer}
}

func (uc *CartUseCase) Price(ctx context.Context, input CartPriceInput) (*CartPriceOutput, error) {
	out, _, err := uc.Pricer.Price(ctx, input)
	return out, err
}

type ShippingQuoteInput struct {
	ZipCode string     `json:"zip_code" validate:"required"`
	Items   []CartLine `json:"items" validate:"dive"`
}

// QuoteShipping cota o frete; sem itens usa a tabela por CEP apenas.
func (uc *CartUseCase) QuoteShipping(ctx context.Context, input ShippingQuoteInput) (*shipping.Result, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	var items []entity.CartItem
	if len(input.Items) > 0 {
		var err error
		if items, err = uc.Pricer.LoadItems(ctx, input.Items); err != nil {
			return nil, err
		}
	}
	result, err := uc.Pricer.Shipping.Quote(ctx, input.ZipCode, items)
	if err != nil {
		return nil, translate(err)
	}
	return result, nil
}
