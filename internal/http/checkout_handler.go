package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/NerdyPepper/furby/internal/domain"
)

type CheckoutService interface {
	Checkout(ctx context.Context, customerID int64, paymentType string) (*domain.Order, error)
	ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	PaymentType string `json:"payment_type"`
}

// POST /transaction/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to checkout")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentType == "" {
		respondError(w, http.StatusBadRequest, "missing_payment_type", "payment_type is required")
		return
	}

	order, err := h.checkout.Checkout(ctx, identity.CustomerID, req.PaymentType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GET /transaction/list
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to list transactions")
		return
	}

	orders, err := h.checkout.ListOrders(ctx, identity.CustomerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}
