package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

// ShelfHandler: favoritos e histórico de navegação do cliente logado.
type ShelfHandler struct {
	Shelf  *usecase.ShelfUseCase
	logger *zap.Logger
}

func NewShelfHandler(uc *usecase.ShelfUseCase, logger *zap.Logger) *ShelfHandler {
	return &ShelfHandler{Shelf: uc, logger: logger}
}

func (h *ShelfHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	list, err := h.Shelf.Favorites(r.Context(), middleware.CustomerID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ShelfHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.Shelf.AddFavorite(r.Context(), middleware.CustomerID(r.Context()), chi.URLParam(r, "productID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShelfHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.Shelf.RemoveFavorite(r.Context(), middleware.CustomerID(r.Context()), chi.URLParam(r, "productID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShelfHandler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := h.Shelf.ClearFavorites(r.Context(), middleware.CustomerID(r.Context())); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShelfHandler) History(w http.ResponseWriter, r *http.Request) {
	list, err := h.Shelf.History(r.Context(), middleware.CustomerID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ShelfHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Shelf.ClearHistory(r.Context(), middleware.CustomerID(r.Context())); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
