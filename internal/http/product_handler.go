package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.NewProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID int64, product *domain.NewProduct) error
}

type ProductHandler struct {
	catalog CatalogService
	ratings RatingService
	timeout time.Duration
}

func NewProductHandler(catalog CatalogService, ratings RatingService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		ratings: ratings,
		timeout: timeout,
	}
}

// GET /product/catalog
func (h *ProductHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

// GET /product/{id}
func (h *ProductHandler) Details(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// POST /product/new
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" || req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_product", "name is required and price must not be negative")
		return
	}

	product, err := h.catalog.CreateProduct(ctx, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// POST /product/update_product/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req domain.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" || req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_product", "name is required and price must not be negative")
		return
	}

	if err := h.catalog.UpdateProduct(ctx, productID, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// GET /product/reviews/{id}
func (h *ProductHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	reviews, err := h.ratings.ListForProduct(ctx, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*domain.ProductReview{}
	}

	respondJSON(w, http.StatusOK, reviews)
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return 0, false
	}
	return productID, true
}
