package service

import (
	"context"
	"log"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/repository"
)

// CheckoutService converts a cart into an immutable order. The commit
// itself is one database transaction owned by the order repository;
// nothing here holds state between the valuation and the clear.
type CheckoutService struct {
	orders repository.OrderRepository
}

func NewCheckoutService(orders repository.OrderRepository) *CheckoutService {
	return &CheckoutService{orders: orders}
}

// Checkout values the customer's cart at current prices, persists one
// order with the supplied payment-type tag and clears the cart, all or
// nothing. An empty cart fails with repository.ErrEmptyCart; a line
// whose product is gone fails the whole checkout with
// repository.ErrProductNotFound. Partial orders are never created.
func (s *CheckoutService) Checkout(ctx context.Context, customerID int64, paymentType string) (*domain.Order, error) {
	if customerID <= 0 {
		return nil, ErrUnauthenticated
	}

	order, err := s.orders.CheckoutCart(ctx, customerID, paymentType)
	if err != nil {
		log.Printf("checkout failed for customer %d: %v", customerID, err)
		return nil, err
	}

	log.Printf("checkout: customer %d order %d amount %.2f", customerID, order.ID, order.Amount)
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	if customerID <= 0 {
		return nil, ErrUnauthenticated
	}

	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		log.Printf("repo list orders error: %v", err)
		return nil, err
	}
	return orders, nil
}
