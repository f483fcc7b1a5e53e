package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Slug        string          `json:"slug" validate:"omitempty,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	WeightGrams int             `json:"weight_grams" validate:"gte=0"`
	Active      *bool           `json:"active"`
}

type CatalogUseCase struct {
	Repo    entity.ProductRepositoryInterface
	Images  ImageStorage
	History HistoryStore
	logger  *zap.Logger
}

func NewCatalogUseCase(repo entity.ProductRepositoryInterface, images ImageStorage, history HistoryStore, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{Repo: repo, Images: images, History: history, logger: logger}
}

func (uc *CatalogUseCase) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	products, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, dbError(err)
	}
	if products == nil {
		products = []*entity.Product{}
	}
	return products, nil
}

// Get aceita ID ou slug. Com customerID, registra no histórico de navegação (best effort).
func (uc *CatalogUseCase) Get(ctx context.Context, idOrSlug, customerID string) (*entity.Product, error) {
	p, err := uc.Repo.FindBySlug(ctx, idOrSlug)
	if errors.Is(err, entity.ErrNotFound) {
		p, err = uc.Repo.FindByID(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("produto")
		}
		return nil, dbError(err)
	}

	if customerID != "" && uc.History != nil {
		if err := uc.History.Push(ctx, customerID, p.ID); err != nil {
			uc.logger.Warn("falha ao registrar histórico", zap.Error(err))
		}
	}
	return p, nil
}

func (uc *CatalogUseCase) Create(ctx context.Context, input ProductInput) (*entity.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	p, err := entity.NewProduct(input.Name, input.Slug, input.Category, input.Price)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	p.Description = input.Description
	p.Stock = input.Stock
	p.WeightGrams = input.WeightGrams
	if input.Active != nil {
		p.Active = *input.Active
	}

	if err := uc.Repo.Create(ctx, p); err != nil {
		return nil, translate(err)
	}
	uc.logger.Info("📦 produto criado", zap.String("product_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

func (uc *CatalogUseCase) Update(ctx context.Context, id string, input ProductInput) (*entity.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	p, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	p.Name = strings.TrimSpace(input.Name)
	if input.Slug != "" {
		p.Slug = entity.Slugify(input.Slug)
	}
	p.Description = input.Description
	p.Category = input.Category
	p.Price = input.Price
	p.Stock = input.Stock
	p.WeightGrams = input.WeightGrams
	if input.Active != nil {
		p.Active = *input.Active
	}
	p.UpdatedAt = time.Now()

	if err := uc.Repo.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Delete é lógico: o produto some da loja mas continua nos pedidos antigos.
func (uc *CatalogUseCase) Delete(ctx context.Context, id string) error {
	return translate(uc.Repo.Deactivate(ctx, id))
}

func (uc *CatalogUseCase) UploadImage(ctx context.Context, id, contentType string, body io.Reader) (*entity.Product, error) {
	if uc.Images == nil {
		return nil, &TechnicalError{Code: "STORAGE_DISABLED", Message: "armazenamento de imagens não configurado"}
	}
	p, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	url, err := uc.Images.UploadProductImage(ctx, id, contentType, body)
	if err != nil {
		return nil, &TechnicalError{Code: "STORAGE_ERROR", Message: "erro ao enviar imagem", Err: err}
	}

	old := p.ImageURL
	p.ImageURL = url
	p.UpdatedAt = time.Now()
	if err := uc.Repo.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	if old != "" {
		if err := uc.Images.DeleteByURL(ctx, old); err != nil {
			uc.logger.Warn("falha ao remover imagem antiga", zap.String("url", old), zap.Error(err))
		}
	}
	return p, nil
}

func validateProduct(input ProductInput) error {
	var errs ValidationErrors
	if err := Validate(input); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		errs = append(errs, ValidationError{Field: "price", Message: "must be greater than 0"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
