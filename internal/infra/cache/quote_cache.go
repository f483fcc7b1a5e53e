package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xavierca1/rog-store/internal/entity"
)

const quotePrefix = "shipping:quote:"

// QuoteCache guarda cotações da transportadora por CEP + itens.
type QuoteCache struct {
	client redis.Cmdable
}

func NewQuoteCache(client redis.Cmdable) *QuoteCache {
	return &QuoteCache{client: client}
}

func (c *QuoteCache) GetQuote(ctx context.Context, key string) ([]entity.ShippingOption, bool, error) {
	raw, err := c.client.Get(ctx, quotePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var opts []entity.ShippingOption
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, false, err
	}
	return opts, true, nil
}

func (c *QuoteCache) SetQuote(ctx context.Context, key string, options []entity.ShippingOption, ttl time.Duration) error {
	raw, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, quotePrefix+key, raw, ttl).Err()
}
