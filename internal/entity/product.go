package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product é uma membrana / biomaterial do catálogo.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	WeightGrams int             `json:"weight_grams"`
	ImageURL    string          `json:"image_url,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewProduct(name, slug, category string, price decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name is required")
	}
	if price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	return &Product{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		Category:  category,
		Price:     price,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Slugify gera o slug usado na URL do produto ("Membrana Colágeno 15x20" -> "membrana-colageno-15x20").
func Slugify(s string) string {
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e", "í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u", "ü", "u", "ç", "c",
	)
	s = replacer.Replace(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

type ProductFilter struct {
	Category   string
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ProductRepositoryInterface interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*Product, error)
	Deactivate(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}
