package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/lib/pq"
)

type RatingRepository interface {
	Add(ctx context.Context, customerID, productID int64, stars *int32, commentText *string) (*domain.Rating, error)
	Remove(ctx context.Context, customerID, ratingID int64) error
	ListForProduct(ctx context.Context, productID int64) ([]*domain.ProductReview, error)
	CountByCustomer(ctx context.Context, customerID int64) (int32, error)
}

type PostgresRatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

func (r *PostgresRatingRepository) Add(ctx context.Context, customerID, productID int64, stars *int32, commentText *string) (*domain.Rating, error) {
	query := `INSERT INTO rating (comment_text, product_id, customer_id, stars)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, comment_date`

	rating := &domain.Rating{
		CommentText: commentText,
		ProductID:   productID,
		CustomerID:  customerID,
		Stars:       stars,
	}
	err := r.db.QueryRowContext(ctx, query, commentText, productID, customerID, stars).
		Scan(&rating.ID, &rating.CommentDate)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("insert rating: %w", err)
	}
	return rating, nil
}

// Remove deletes a rating, but only when it belongs to the caller.
func (r *PostgresRatingRepository) Remove(ctx context.Context, customerID, ratingID int64) error {
	query := `DELETE FROM rating WHERE id = $1 AND customer_id = $2`

	res, err := r.db.ExecContext(ctx, query, ratingID, customerID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rating result: %w", err)
	}
	if affected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

func (r *PostgresRatingRepository) ListForProduct(ctx context.Context, productID int64) ([]*domain.ProductReview, error) {
	query := `SELECT r.comment_text, r.comment_date, p.name, c.username, r.stars
	          FROM rating r
	          JOIN product p ON p.id = r.product_id
	          JOIN customer c ON c.id = r.customer_id
	          WHERE r.product_id = $1
	          ORDER BY r.id`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.ProductReview
	for rows.Next() {
		review := &domain.ProductReview{}
		if err := rows.Scan(&review.CommentText, &review.CommentDate, &review.ProductName, &review.CustomerName, &review.Stars); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reviews, nil
}

func (r *PostgresRatingRepository) CountByCustomer(ctx context.Context, customerID int64) (int32, error) {
	var count int32
	query := `SELECT COUNT(*) FROM rating WHERE customer_id = $1`
	if err := r.db.QueryRowContext(ctx, query, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return count, nil
}
