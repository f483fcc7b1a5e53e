// Package shipping resolves freight options for a CEP: the carrier-rate API first,
// the regional fallback table when the API is unavailable.
package shipping

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

const (
	SourceCarrier  = "carrier"
	SourceFallback = "fallback"
	SourceCache    = "cache"
)

type RateProvider interface {
	Quote(ctx context.Context, zip string, items []entity.CartItem) ([]entity.ShippingOption, error)
}

type QuoteCache interface {
	GetQuote(ctx context.Context, key string) ([]entity.ShippingOption, bool, error)
	SetQuote(ctx context.Context, key string, options []entity.ShippingOption, ttl time.Duration) error
}

type RateTable interface {
	List(ctx context.Context) ([]*entity.ShippingRate, error)
}

type Result struct {
	ZipCode string                  `json:"zip_code"`
	Source  string                  `json:"source"`
	Options []entity.ShippingOption `json:"options"`
}

// Find returns the option with the given id or service type.
func (r *Result) Find(service string) (entity.ShippingOption, bool) {
	for _, o := range r.Options {
		if o.ID == service || strings.EqualFold(o.ServiceType, service) {
			return o, true
		}
	}
	return entity.ShippingOption{}, false
}

type Quoter struct {
	provider RateProvider
	cache    QuoteCache
	rates    RateTable
	cacheTTL time.Duration
	logger   *zap.Logger
}

// provider, cache and rates may be nil.
func NewQuoter(provider RateProvider, cache QuoteCache, rates RateTable, cacheTTL time.Duration, logger *zap.Logger) *Quoter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Quoter{provider: provider, cache: cache, rates: rates, cacheTTL: cacheTTL, logger: logger}
}

func (q *Quoter) Quote(ctx context.Context, rawZip string, items []entity.CartItem) (*Result, error) {
	zip, err := NormalizeZip(rawZip)
	if err != nil {
		return nil, err
	}

	key := cacheKey(zip, items)
	if q.cache != nil {
		if opts, ok, err := q.cache.GetQuote(ctx, key); err == nil && ok {
			return &Result{ZipCode: zip, Source: SourceCache, Options: opts}, nil
		} else if err != nil {
			q.logger.Warn("cache de frete indisponível", zap.Error(err))
		}
	}

	if q.provider != nil {
		opts, err := q.provider.Quote(ctx, zip, items)
		if err == nil && len(opts) > 0 {
			sortOptions(opts)
			if q.cache != nil {
				if err := q.cache.SetQuote(ctx, key, opts, q.cacheTTL); err != nil {
					q.logger.Warn("falha ao gravar cache de frete", zap.Error(err))
				}
			}
			return &Result{ZipCode: zip, Source: SourceCarrier, Options: opts}, nil
		}
		if err == nil {
			err = fmt.Errorf("transportadora não retornou opções")
		}
		q.logger.Warn("cotação remota falhou, usando tabela padrão", zap.String("zip", zip), zap.Error(err))
	}

	var table []*entity.ShippingRate
	if q.rates != nil {
		table, err = q.rates.List(ctx)
		if err != nil {
			q.logger.Warn("falha ao carregar faixas de frete", zap.Error(err))
		}
	}

	return &Result{ZipCode: zip, Source: SourceFallback, Options: FallbackRates(zip, table)}, nil
}

func sortOptions(opts []entity.ShippingOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].Rate.LessThan(opts[j].Rate)
	})
}

func cacheKey(zip string, items []entity.CartItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s:%d:%d", it.ProductID, it.Quantity, it.WeightGrams))
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return zip + ":" + hex.EncodeToString(sum[:8])
}
