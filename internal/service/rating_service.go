package service

import (
	"context"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/repository"
)

type RatingService struct {
	repo repository.RatingRepository
}

func NewRatingService(repo repository.RatingRepository) *RatingService {
	return &RatingService{repo: repo}
}

func (s *RatingService) Add(ctx context.Context, customerID, productID int64, stars *int32, commentText *string) (*domain.Rating, error) {
	if customerID <= 0 {
		return nil, ErrUnauthenticated
	}
	return s.repo.Add(ctx, customerID, productID, stars, commentText)
}

func (s *RatingService) Remove(ctx context.Context, customerID, ratingID int64) error {
	if customerID <= 0 {
		return ErrUnauthenticated
	}
	return s.repo.Remove(ctx, customerID, ratingID)
}

func (s *RatingService) ListForProduct(ctx context.Context, productID int64) ([]*domain.ProductReview, error) {
	return s.repo.ListForProduct(ctx, productID)
}
