package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	historyPrefix = "history:"
	// HistoryLimit é quantos produtos vistos guardamos por cliente.
	HistoryLimit = 20
)

// HistoryStore mantém os produtos vistos recentemente, mais novo primeiro, sem repetição.
type HistoryStore struct {
	client redis.Cmdable
}

func NewHistoryStore(client redis.Cmdable) *HistoryStore {
	return &HistoryStore{client: client}
}

func historyKey(customerID string) string {
	return historyPrefix + customerID
}

func (s *HistoryStore) Push(ctx context.Context, customerID, productID string) error {
	key := historyKey(customerID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, productID)
		pipe.LPush(ctx, key, productID)
		pipe.LTrim(ctx, key, 0, HistoryLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("erro ao registrar histórico: %w", err)
	}
	return nil
}

func (s *HistoryStore) List(ctx context.Context, customerID string) ([]string, error) {
	return s.client.LRange(ctx, historyKey(customerID), 0, HistoryLimit-1).Result()
}

func (s *HistoryStore) Clear(ctx context.Context, customerID string) error {
	return s.client.Del(ctx, historyKey(customerID)).Err()
}
