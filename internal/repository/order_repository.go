package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/lib/pq"
)

type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// OrderRepository owns transaction rows and the checkout commit. Orders
// are insert-only; nothing in this package updates or deletes them.
type OrderRepository interface {
	CheckoutCart(ctx context.Context, customerID int64, paymentType string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

type orderEventPayload struct {
	OrderID     int64   `json:"order_id"`
	CustomerID  int64   `json:"customer_id"`
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"payment_type"`
	OrderDate   string  `json:"order_date"`
}

// CheckoutCart converts the customer's cart lines into one transaction
// row and clears the cart, all inside a single database transaction.
//
// The valuation query locks the cart rows FOR UPDATE, so a concurrent
// increment, decrement or second checkout on an existing line blocks
// until this transaction commits and then sees the cleared cart. A
// concurrent insert of a line for a product we did not value is not
// blocked, but the final delete names exactly the valued products, so
// such a line survives the checkout untouched. Every item is therefore
// either billed in this order or still in the cart afterwards, never
// both and never neither.
func (r *PostgresOrderRepository) CheckoutCart(ctx context.Context, customerID int64, paymentType string) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	valuation := `SELECT ci.product_id, ci.quantity, p.price
	              FROM cart_items ci
	              LEFT JOIN product p ON p.id = ci.product_id
	              WHERE ci.cart_id = $1
	              FOR UPDATE OF ci`

	rows, err := tx.QueryContext(ctx, valuation, customerID)
	if err != nil {
		return nil, fmt.Errorf("value cart: %w", err)
	}

	var total float64
	var productIDs []int64
	for rows.Next() {
		var productID int64
		var quantity int32
		var price sql.NullFloat64
		if err := rows.Scan(&productID, &quantity, &price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if !price.Valid {
			rows.Close()
			return nil, ErrProductNotFound
		}
		total += float64(quantity) * price.Float64
		productIDs = append(productIDs, productID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	if len(productIDs) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		CustomerID:  customerID,
		Amount:      total,
		PaymentType: paymentType,
	}
	insert := `INSERT INTO transaction (payment_type, amount, customer_id)
	           VALUES ($1, $2, $3)
	           RETURNING id, order_date`
	if err := tx.QueryRowContext(ctx, insert, paymentType, total, customerID).Scan(&order.ID, &order.OrderDate); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	payload, err := json.Marshal(orderEventPayload{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Amount:      order.Amount,
		PaymentType: order.PaymentType,
		OrderDate:   order.OrderDate.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}

	outbox := `INSERT INTO outbox_events (aggregate_id, event_type, payload)
	           VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, outbox, fmt.Sprint(order.ID), "order.created", payload); err != nil {
		return nil, fmt.Errorf("insert outbox event: %w", err)
	}

	// Delete only the lines we valued. Lines added concurrently for
	// other products stay in the cart and belong to the next checkout.
	clearQuery := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = ANY($2)`
	if _, err := tx.ExecContext(ctx, clearQuery, customerID, pq.Array(productIDs)); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return order, nil
}

func (r *PostgresOrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	query := `SELECT id, payment_type, amount, customer_id, order_date
	          FROM transaction
	          WHERE customer_id = $1
	          ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.PaymentType, &order.Amount, &order.CustomerID, &order.OrderDate); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (r *PostgresOrderRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM outbox_events
	          WHERE processed_at IS NULL
	          ORDER BY id
	          LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *PostgresOrderRepository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}
