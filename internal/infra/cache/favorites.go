package cache

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const favoritesPrefix = "favorites:"

// FavoritesStore guarda os produtos favoritos de cada cliente num SET.
type FavoritesStore struct {
	client redis.Cmdable
}

func NewFavoritesStore(client redis.Cmdable) *FavoritesStore {
	return &FavoritesStore{client: client}
}

func favoritesKey(customerID string) string {
	return favoritesPrefix + customerID
}

func (s *FavoritesStore) Add(ctx context.Context, customerID, productID string) error {
	if err := s.client.SAdd(ctx, favoritesKey(customerID), productID).Err(); err != nil {
		return fmt.Errorf("erro ao favoritar produto: %w", err)
	}
	return nil
}

func (s *FavoritesStore) Remove(ctx context.Context, customerID, productID string) error {
	return s.client.SRem(ctx, favoritesKey(customerID), productID).Err()
}

// List devolve os IDs ordenados para a resposta ser estável.
func (s *FavoritesStore) List(ctx context.Context, customerID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, favoritesKey(customerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("erro ao listar favoritos: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FavoritesStore) Clear(ctx context.Context, customerID string) error {
	return s.client.Del(ctx, favoritesKey(customerID)).Err()
}
