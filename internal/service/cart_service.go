package service

import (
	"context"
	"log"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/repository"
)

// CartService maintains per-customer cart lines. All quantity semantics
// live in the repository; this layer adds the authentication gate and
// logging.
type CartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// AddItem increments the line for (customer, product), creating it at
// quantity 1 when absent. Returns the resulting quantity.
func (s *CartService) AddItem(ctx context.Context, customerID, productID int64) (int32, error) {
	if customerID <= 0 {
		return 0, ErrUnauthenticated
	}

	quantity, err := s.repo.AddItem(ctx, customerID, productID)
	if err != nil {
		log.Printf("repo add item error: %v", err)
		return 0, err
	}
	return quantity, nil
}

// RemoveItem decrements the line, deleting it at the last unit. The
// returned quantity is 0 when the line was removed entirely.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID int64) (int32, error) {
	if customerID <= 0 {
		return 0, ErrUnauthenticated
	}

	quantity, err := s.repo.RemoveItem(ctx, customerID, productID)
	if err != nil {
		log.Printf("repo remove item error: %v", err)
		return 0, err
	}
	return quantity, nil
}

func (s *CartService) ListItems(ctx context.Context, customerID int64) ([]domain.CartItem, error) {
	if customerID <= 0 {
		return nil, ErrUnauthenticated
	}

	items, err := s.repo.ListItems(ctx, customerID)
	if err != nil {
		log.Printf("repo list items error: %v", err)
		return nil, err
	}
	return items, nil
}

// Total values the cart at the catalog's current prices.
func (s *CartService) Total(ctx context.Context, customerID int64) (float64, error) {
	if customerID <= 0 {
		return 0, ErrUnauthenticated
	}

	total, err := s.repo.Total(ctx, customerID)
	if err != nil {
		log.Printf("repo cart total error: %v", err)
		return 0, err
	}
	return total, nil
}

// Clear empties the cart. Clearing an already empty cart succeeds.
func (s *CartService) Clear(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return ErrUnauthenticated
	}

	if err := s.repo.Clear(ctx, customerID); err != nil {
		log.Printf("repo clear cart error: %v", err)
		return err
	}
	return nil
}
