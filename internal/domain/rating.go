package domain

import "time"

type Rating struct {
	ID          int64     `json:"id"`
	CommentText *string   `json:"comment_text,omitempty"`
	CommentDate time.Time `json:"comment_date"`
	ProductID   int64     `json:"product_id"`
	CustomerID  int64     `json:"customer_id"`
	Stars       *int32    `json:"stars,omitempty"`
}

// ProductReview is a rating joined with the product and customer names
// for the public reviews endpoint.
type ProductReview struct {
	CommentText  *string   `json:"comment_text,omitempty"`
	CommentDate  time.Time `json:"comment_date"`
	ProductName  string    `json:"product_name"`
	CustomerName string    `json:"customer_name"`
	Stars        *int32    `json:"stars,omitempty"`
}
