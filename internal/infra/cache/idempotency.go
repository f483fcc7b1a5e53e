package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Escopos de idempotência: cada consumidor marca seus eventos num espaço de chaves próprio.
const (
	ScopeWebhook = "webhook"
	ScopeEvents  = "events"
)

func processedKey(scope, eventID string) string {
	return scope + ":processed:" + eventID
}

// IdempotencyStore evita processar o mesmo evento duas vezes dentro de um escopo.
type IdempotencyStore struct {
	client redis.Cmdable
	scope  string
}

func NewIdempotencyStore(client redis.Cmdable, scope string) *IdempotencyStore {
	return &IdempotencyStore{client: client, scope: scope}
}

// MarkProcessed devolve true se o evento ainda não tinha sido visto (SETNX).
func (s *IdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, processedKey(s.scope, eventID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("erro ao marcar evento %s: %w", eventID, err)
	}
	return ok, nil
}

// Forget libera o evento para reprocessamento (ex.: quando o handler falhou).
func (s *IdempotencyStore) Forget(ctx context.Context, eventID string) error {
	return s.client.Del(ctx, processedKey(s.scope, eventID)).Err()
}
