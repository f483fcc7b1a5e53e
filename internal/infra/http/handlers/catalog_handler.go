package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/rog-store/internal/entity"
	"github.com/xavierca1/rog-store/internal/infra/http/middleware"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

const maxImageBytes = 5 << 20

type CatalogHandler struct {
	Catalog *usecase.CatalogUseCase
	logger  *zap.Logger
}

func NewCatalogHandler(uc *usecase.CatalogUseCase, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: uc, logger: logger}
}

// List (GET /products?category=&q=&limit=&offset=). A loja só vê produtos ativos.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll (GET /admin/products) inclui os inativos.
func (h *CatalogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	q := r.URL.Query()
	products, err := h.Catalog.List(r.Context(), entity.ProductFilter{
		Category:   q.Get("category"),
		Search:     q.Get("q"),
		ActiveOnly: activeOnly,
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get (GET /products/{idOrSlug}); cliente logado ganha a visita no histórico.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "idOrSlug"), middleware.CustomerID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.ProductInput
	if !decodeJSON(w, r, &input) {
		return
	}
	p, err := h.Catalog.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.ProductInput
	if !decodeJSON(w, r, &input) {
		return
	}
	p, err := h.Catalog.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage (POST /admin/products/{id}/image) recebe multipart com o campo "image".
func (h *CatalogHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1024)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_UPLOAD", "imagem inválida ou maior que 5MB")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_UPLOAD", "campo image ausente")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_UPLOAD", "formato não suportado: "+contentType)
		return
	}

	p, err := h.Catalog.UploadImage(r.Context(), chi.URLParam(r, "id"), contentType, file)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
