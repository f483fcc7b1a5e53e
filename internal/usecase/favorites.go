package usecase

import (
	"context"

	"github.com/xavierca1/rog-store/internal/entity"
	"go.uber.org/zap"
)

// ShelfUseCase cuida das listas pessoais guardadas no redis: favoritos e vistos recentemente.
type ShelfUseCase struct {
	Products  entity.ProductRepositoryInterface
	favorites FavoritesStore
	history   HistoryStore
	logger    *zap.Logger
}

func NewShelfUseCase(products entity.ProductRepositoryInterface, favorites FavoritesStore, history HistoryStore, logger *zap.Logger) *ShelfUseCase {
	return &ShelfUseCase{Products: products, favorites: favorites, history: history, logger: logger}
}

func (uc *ShelfUseCase) AddFavorite(ctx context.Context, customerID, productID string) error {
	if _, err := uc.Products.FindByID(ctx, productID); err != nil {
		return translate(err)
	}
	if err := uc.favorites.Add(ctx, customerID, productID); err != nil {
		return cacheError(err)
	}
	return nil
}

func (uc *ShelfUseCase) RemoveFavorite(ctx context.Context, customerID, productID string) error {
	if err := uc.favorites.Remove(ctx, customerID, productID); err != nil {
		return cacheError(err)
	}
	return nil
}

func (uc *ShelfUseCase) Favorites(ctx context.Context, customerID string) ([]*entity.Product, error) {
	return uc.products(ctx, uc.favorites, customerID)
}

func (uc *ShelfUseCase) ClearFavorites(ctx context.Context, customerID string) error {
	return cacheError(uc.favorites.Clear(ctx, customerID))
}

// History devolve os produtos vistos, do mais recente para o mais antigo.
func (uc *ShelfUseCase) History(ctx context.Context, customerID string) ([]*entity.Product, error) {
	return uc.products(ctx, uc.history, customerID)
}

func (uc *ShelfUseCase) ClearHistory(ctx context.Context, customerID string) error {
	return cacheError(uc.history.Clear(ctx, customerID))
}

// products resolve os IDs guardados mantendo a ordem da lista e pulando produtos inativos ou removidos.
func (uc *ShelfUseCase) products(ctx context.Context, store ProductIDStore, customerID string) ([]*entity.Product, error) {
	ids, err := store.List(ctx, customerID)
	if err != nil {
		return nil, cacheError(err)
	}
	out := make([]*entity.Product, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := uc.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dbError(err)
	}
	byID := make(map[string]*entity.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func cacheError(err error) error {
	if err == nil {
		return nil
	}
	return &TechnicalError{Code: "CACHE_ERROR", Message: "erro ao acessar o cache", Err: err}
}
