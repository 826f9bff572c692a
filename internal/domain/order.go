package domain

import "time"

// Order is the immutable record a successful checkout leaves behind.
// It is a point-in-time snapshot: never updated, never re-derived from
// the cart after creation.
type Order struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	Amount      float64   `json:"amount"`
	PaymentType string    `json:"payment_type"`
	OrderDate   time.Time `json:"order_date"`
}
