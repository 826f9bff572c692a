package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/NerdyPepper/furby/internal/domain"
)

type CartService interface {
	AddItem(ctx context.Context, customerID, productID int64) (int32, error)
	RemoveItem(ctx context.Context, customerID, productID int64) (int32, error)
	ListItems(ctx context.Context, customerID int64) ([]domain.CartItem, error)
	Total(ctx context.Context, customerID int64) (float64, error)
}

type CartHandler struct {
	cart    CartService
	timeout time.Duration
}

func NewCartHandler(cart CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

type CartItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type CartLineResponseDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
	Removed   bool  `json:"removed,omitempty"`
}

// POST /cart/add
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to add to cart")
		return
	}

	var req CartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	quantity, err := h.cart.AddItem(ctx, identity.CustomerID, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartLineResponseDTO{
		ProductID: req.ProductID,
		Quantity:  quantity,
	})
}

// POST /cart/remove
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to modify the cart")
		return
	}

	var req CartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	quantity, err := h.cart.RemoveItem(ctx, identity.CustomerID, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartLineResponseDTO{
		ProductID: req.ProductID,
		Quantity:  quantity,
		Removed:   quantity == 0,
	})
}

// GET /cart/items
func (h *CartHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to view the cart")
		return
	}

	items, err := h.cart.ListItems(ctx, identity.CustomerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

// GET /cart/total
func (h *CartHandler) Total(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to view the cart")
		return
	}

	total, err := h.cart.Total(ctx, identity.CustomerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{"total": total})
}
