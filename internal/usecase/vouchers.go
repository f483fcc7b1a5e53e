package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/pricing"
)

type VoucherInput struct {
	Code          string              `json:"code" validate:"required,min=3,max=50"`
	Description   string              `json:"description" validate:"max=500"`
	DiscountType  entity.DiscountType `json:"discount_type" validate:"required,oneof=percentage fixed shipping"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	MinPurchase   decimal.Decimal     `json:"min_purchase"`
	MaxUses       int                 `json:"max_uses" validate:"gte=0"`
	ExpiresAt     *time.Time          `json:"expires_at"`
	Active        bool                `json:"active"`
}

type ValidateVoucherInput struct {
	Code        string          `json:"code" validate:"required"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
}

type ValidateVoucherOutput struct {
	Valid         bool                `json:"valid"`
	Code          string              `json:"code"`
	DiscountType  entity.DiscountType `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	Discount      decimal.Decimal     `json:"discount"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Total         decimal.Decimal     `json:"total"`
	Reason        string              `json:"reason,omitempty"`
	Message       string              `json:"message,omitempty"`
}

type VoucherUseCase struct {
	Repo entity.VoucherRepositoryInterface
	now  func() time.Time
}

func NewVoucherUseCase(repo entity.VoucherRepositoryInterface) *VoucherUseCase {
	return &VoucherUseCase{Repo: repo, now: time.Now}
}

// Validate simula o cupom sobre um subtotal. Cupom recusado devolve Valid=false com o motivo
// e também um DomainError, para a API responder 422.
func (uc *VoucherUseCase) Validate(ctx context.Context, input ValidateVoucherInput) (*ValidateVoucherOutput, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	code := entity.NormalizeVoucherCode(input.Code)
	out := &ValidateVoucherOutput{Code: code, ShippingFee: input.ShippingFee}

	v, err := uc.Repo.FindByCode(ctx, code)
	if err == nil {
		err = v.Eligible(input.Subtotal, uc.now())
	}
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			err = entity.ErrVoucherNotFound
		}
		reason := pricing.RejectionReason(err)
		if reason == "invalid" {
			return nil, dbError(err)
		}
		out.Reason = reason
		out.Message = err.Error()
		out.Total = pricing.Total(input.Subtotal, decimal.Zero, input.ShippingFee)
		return out, translate(err)
	}

	adj := pricing.ApplyDiscount(v.DiscountType, v.DiscountValue, input.Subtotal, input.ShippingFee)
	out.Valid = true
	out.DiscountType = v.DiscountType
	out.DiscountValue = v.DiscountValue
	out.Discount = pricing.Round(adj.Amount())
	out.ShippingFee = adj.ShippingFee
	out.Total = pricing.Total(input.Subtotal, out.Discount, adj.ShippingFee)
	return out, nil
}

func (uc *VoucherUseCase) List(ctx context.Context) ([]*entity.Voucher, error) {
	list, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func (uc *VoucherUseCase) Create(ctx context.Context, input VoucherInput) (*entity.Voucher, error) {
	if err := validateVoucher(input); err != nil {
		return nil, err
	}
	now := uc.now()
	v := &entity.Voucher{
		ID:        uuid.New().String(),
		Code:      entity.NormalizeVoucherCode(input.Code),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyVoucherInput(v, input)
	if err := uc.Repo.Create(ctx, v); err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// Update não altera o código nem o contador de usos.
func (uc *VoucherUseCase) Update(ctx context.Context, id string, input VoucherInput) (*entity.Voucher, error) {
	if err := validateVoucher(input); err != nil {
		return nil, err
	}
	v := &entity.Voucher{ID: id, Code: entity.NormalizeVoucherCode(input.Code), UpdatedAt: uc.now()}
	applyVoucherInput(v, input)
	if err := uc.Repo.Update(ctx, v); err != nil {
		return nil, translate(err)
	}
	return v, nil
}

func (uc *VoucherUseCase) Delete(ctx context.Context, id string) error {
	return translate(uc.Repo.Delete(ctx, id))
}

func applyVoucherInput(v *entity.Voucher, input VoucherInput) {
	v.Description = input.Description
	v.DiscountType = input.DiscountType
	v.DiscountValue = input.DiscountValue
	v.MinPurchase = input.MinPurchase
	v.MaxUses = input.MaxUses
	v.ExpiresAt = input.ExpiresAt
	v.Active = input.Active
}

func validateVoucher(input VoucherInput) error {
	var errs ValidationErrors
	if err := Validate(input); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	if input.DiscountType != entity.DiscountShipping && !input.DiscountValue.IsPositive() {
		errs = append(errs, ValidationError{Field: "discount_value", Message: "must be greater than 0"})
	}
	if input.MinPurchase.IsNegative() {
		errs = append(errs, ValidationError{Field: "min_purchase", Message: "must be greater than or equal to 0"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ConditionInput struct {
	Name           string              `json:"name" validate:"required,max=200"`
	Active         bool                `json:"active"`
	ProductIDs     []string            `json:"product_ids"`
	Categories     []string            `json:"categories"`
	PaymentMethods []string            `json:"payment_methods" validate:"dive,oneof=PIX BOLETO CREDIT_CARD"`
	MinQuantity    int                 `json:"min_quantity" validate:"gte=0"`
	DiscountType   entity.DiscountType `json:"discount_type" validate:"omitempty,oneof=percentage fixed shipping"`
	DiscountValue  decimal.Decimal     `json:"discount_value"`
	FreeShipping   bool                `json:"free_shipping"`
	Priority       int                 `json:"priority"`
}

type ConditionUseCase struct {
	Repo entity.CommercialConditionRepositoryInterface
}

func NewConditionUseCase(repo entity.CommercialConditionRepositoryInterface) *ConditionUseCase {
	return &ConditionUseCase{Repo: repo}
}

func (uc *ConditionUseCase) List(ctx context.Context) ([]*entity.CommercialCondition, error) {
	list, err := uc.Repo.List(ctx, false)
	if err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func (uc *ConditionUseCase) Create(ctx context.Context, input ConditionInput) (*entity.CommercialCondition, error) {
	if err := validateCondition(input); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.CommercialCondition{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyConditionInput(c, input)
	if err := uc.Repo.Create(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (uc *ConditionUseCase) Update(ctx context.Context, id string, input ConditionInput) (*entity.CommercialCondition, error) {
	if err := validateCondition(input); err != nil {
		return nil, err
	}
	c, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyConditionInput(c, input)
	c.UpdatedAt = time.Now()
	if err := uc.Repo.Update(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (uc *ConditionUseCase) Delete(ctx context.Context, id string) error {
	return translate(uc.Repo.Delete(ctx, id))
}

func applyConditionInput(c *entity.CommercialCondition, input ConditionInput) {
	c.Name = input.Name
	c.Active = input.Active
	c.ProductIDs = nonNil(input.ProductIDs)
	c.Categories = nonNil(input.Categories)
	c.PaymentMethods = nonNil(input.PaymentMethods)
	c.MinQuantity = input.MinQuantity
	c.DiscountType = input.DiscountType
	c.DiscountValue = input.DiscountValue
	c.FreeShipping = input.FreeShipping
	c.Priority = input.Priority
}

func validateCondition(input ConditionInput) error {
	var errs ValidationErrors
	if err := Validate(input); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	if input.DiscountType == "" && !input.FreeShipping {
		errs = append(errs, ValidationError{Field: "discount_type", Message: "is required unless free_shipping is set"})
	}
	if input.DiscountValue.IsNegative() {
		errs = append(errs, ValidationError{Field: "discount_value", Message: "must be greater than or equal to 0"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type ShippingRateInput struct {
	Name           string          `json:"name" validate:"required,max=100"`
	ZipPrefixStart int             `json:"zip_prefix_start" validate:"gte=0,lte=99"`
	ZipPrefixEnd   int             `json:"zip_prefix_end" validate:"gte=0,lte=99,gtefield=ZipPrefixStart"`
	PACRate        decimal.Decimal `json:"pac_rate"`
	SEDEXRate      decimal.Decimal `json:"sedex_rate"`
	PACDays        int             `json:"pac_days" validate:"gt=0,lte=60"`
	Active         bool            `json:"active"`
}

type ShippingRateUseCase struct {
	Repo entity.ShippingRateRepositoryInterface
}

func NewShippingRateUseCase(repo entity.ShippingRateRepositoryInterface) *ShippingRateUseCase {
	return &ShippingRateUseCase{Repo: repo}
}

func (uc *ShippingRateUseCase) List(ctx context.Context) ([]*entity.ShippingRate, error) {
	list, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func (uc *ShippingRateUseCase) Create(ctx context.Context, input ShippingRateInput) (*entity.ShippingRate, error) {
	if err := validateRate(input); err != nil {
		return nil, err
	}
	now := time.Now()
	r := &entity.ShippingRate{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyRateInput(r, input)
	if err := uc.Repo.Create(ctx, r); err != nil {
		return nil, translate(err)
	}
	return r, nil
}

func (uc *ShippingRateUseCase) Update(ctx context.Context, id string, input ShippingRateInput) (*entity.ShippingRate, error) {
	if err := validateRate(input); err != nil {
		return nil, err
	}
	r := &entity.ShippingRate{ID: id, UpdatedAt: time.Now()}
	applyRateInput(r, input)
	if err := uc.Repo.Update(ctx, r); err != nil {
		return nil, translate(err)
	}
	return r, nil
}

func (uc *ShippingRateUseCase) Delete(ctx context.Context, id string) error {
	return translate(uc.Repo.Delete(ctx, id))
}

func applyRateInput(r *entity.ShippingRate, input ShippingRateInput) {
	r.Name = input.Name
	r.ZipPrefixStart = input.ZipPrefixStart
	r.ZipPrefixEnd = input.ZipPrefixEnd
	r.PACRate = input.PACRate
	r.SEDEXRate = input.SEDEXRate
	r.PACDays = input.PACDays
	r.Active = input.Active
}

func validateRate(input ShippingRateInput) error {
	var errs ValidationErrors
	if err := Validate(input); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	if !input.PACRate.IsPositive() {
		errs = append(errs, ValidationError{Field: "pac_rate", Message: "must be greater than 0"})
	}
	if !input.SEDEXRate.IsPositive() {
		errs = append(errs, ValidationError{Field: "sedex_rate", Message: "must be greater than 0"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
