package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kosynka/storefront/internal/catalog"
)

// CatalogHandler proxies catalog reads to the store backend.
type CatalogHandler struct {
	catalog *catalog.Client
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(client *catalog.Client, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: client,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := catalog.ProductParams{
		Page:    intQuery(q.Get("page")),
		PerPage: intQuery(q.Get("per_page")),
		Search:  q.Get("search"),
		OrderBy: q.Get("orderby"),
	}
	if raw := q.Get("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			params.Category = id
		}
	}

	products, err := h.catalog.Products(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: products})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid product id"},
		})
		return
	}

	product, err := h.catalog.ProductByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := catalog.CategoryParams{
		PerPage:   intQuery(q.Get("per_page")),
		HideEmpty: q.Get("hide_empty") == "true",
		OrderBy:   q.Get("orderby"),
	}
	if raw := q.Get("parent"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			params.Parent = id
		}
	}

	categories, err := h.catalog.Categories(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: categories})
}

func intQuery(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
