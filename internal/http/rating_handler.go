package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/NerdyPepper/furby/internal/domain"
)

type RatingService interface {
	Add(ctx context.Context, customerID, productID int64, stars *int32, commentText *string) (*domain.Rating, error)
	Remove(ctx context.Context, customerID, ratingID int64) error
	ListForProduct(ctx context.Context, productID int64) ([]*domain.ProductReview, error)
}

type RatingHandler struct {
	ratings RatingService
	timeout time.Duration
}

func NewRatingHandler(ratings RatingService, timeout time.Duration) *RatingHandler {
	return &RatingHandler{
		ratings: ratings,
		timeout: timeout,
	}
}

type AddRatingRequestDTO struct {
	ProductID   int64   `json:"product_id"`
	Stars       *int32  `json:"stars,omitempty"`
	CommentText *string `json:"comment_text,omitempty"`
}

type RemoveRatingRequestDTO struct {
	RatingID int64 `json:"rating_id"`
}

// POST /rating/add
func (h *RatingHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to add a rating")
		return
	}

	var req AddRatingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Stars != nil && (*req.Stars < 1 || *req.Stars > 5) {
		respondError(w, http.StatusBadRequest, "invalid_stars", "stars must be between 1 and 5")
		return
	}

	rating, err := h.ratings.Add(ctx, identity.CustomerID, req.ProductID, req.Stars, req.CommentText)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, rating)
}

// POST /rating/remove
func (h *RatingHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity.CustomerID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "need to be logged in to remove a rating")
		return
	}

	var req RemoveRatingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RatingID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_rating_id", "rating_id must be positive")
		return
	}

	if err := h.ratings.Remove(ctx, identity.CustomerID, req.RatingID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
