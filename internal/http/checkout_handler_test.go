package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/repository"
)

type stubCheckoutService struct {
	order  *domain.Order
	orders []*domain.Order
	err    error
}

func (s *stubCheckoutService) Checkout(ctx context.Context, customerID int64, paymentType string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubCheckoutService) ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	return s.orders, s.err
}

func TestCheckout_Success(t *testing.T) {
	order := &domain.Order{
		ID:          11,
		CustomerID:  1,
		Amount:      9.99,
		PaymentType: "card",
		OrderDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	handler := NewCheckoutHandler(&stubCheckoutService{order: order}, time.Second)

	w := httptest.NewRecorder()
	handler.Checkout(w, authenticatedRequest(http.MethodPost, "/transaction/checkout", `{"payment_type": "card"}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, int64(11), resp.ID)
	assert.InDelta(t, 9.99, resp.Amount, 1e-9)
	assert.Equal(t, "card", resp.PaymentType)
}

func TestCheckout_Anonymous(t *testing.T) {
	handler := NewCheckoutHandler(&stubCheckoutService{}, time.Second)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/transaction/checkout", nil)
	handler.Checkout(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckout_MissingPaymentType(t *testing.T) {
	handler := NewCheckoutHandler(&stubCheckoutService{}, time.Second)

	w := httptest.NewRecorder()
	handler.Checkout(w, authenticatedRequest(http.MethodPost, "/transaction/checkout", `{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	handler := NewCheckoutHandler(&stubCheckoutService{err: repository.ErrEmptyCart}, time.Second)

	w := httptest.NewRecorder()
	handler.Checkout(w, authenticatedRequest(http.MethodPost, "/transaction/checkout", `{"payment_type": "card"}`))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestListOrders_NoneYet(t *testing.T) {
	handler := NewCheckoutHandler(&stubCheckoutService{}, time.Second)

	w := httptest.NewRecorder()
	handler.ListOrders(w, authenticatedRequest(http.MethodGet, "/transaction/list", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListOrders_Success(t *testing.T) {
	orders := []*domain.Order{
		{ID: 12, CustomerID: 1, Amount: 4.5, PaymentType: "cash"},
		{ID: 11, CustomerID: 1, Amount: 9.99, PaymentType: "card"},
	}
	handler := NewCheckoutHandler(&stubCheckoutService{orders: orders}, time.Second)

	w := httptest.NewRecorder()
	handler.ListOrders(w, authenticatedRequest(http.MethodGet, "/transaction/list", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []*domain.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(12), resp[0].ID)
}
