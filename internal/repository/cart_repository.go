package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/lib/pq"
)

// CartRepository owns the cart_items rows. All quantity arithmetic runs
// inside the database so concurrent mutations on the same line never
// lose an update.
type CartRepository interface {
	AddItem(ctx context.Context, customerID, productID int64) (int32, error)
	RemoveItem(ctx context.Context, customerID, productID int64) (int32, error)
	ListItems(ctx context.Context, customerID int64) ([]domain.CartItem, error)
	Total(ctx context.Context, customerID int64) (float64, error)
	Clear(ctx context.Context, customerID int64) error
}

type PostgresCartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

// AddItem upserts the (customer, product) line and returns the resulting
// quantity. The increment happens in the ON CONFLICT clause, so two
// concurrent adds on the same absent line serialize inside postgres
// instead of racing a select against an update.
func (r *PostgresCartRepository) AddItem(ctx context.Context, customerID, productID int64) (int32, error) {
	query := `INSERT INTO cart_items (cart_id, product_id, quantity)
	          VALUES ($1, $2, 1)
	          ON CONFLICT (cart_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + 1
	          RETURNING quantity`

	var quantity int32
	err := r.db.QueryRowContext(ctx, query, customerID, productID).Scan(&quantity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			// foreign key: the product (or customer) does not exist
			if pqErr.Constraint == "cart_items_product_id_fkey" {
				return 0, ErrProductNotFound
			}
			return 0, ErrCustomerNotFound
		}
		return 0, fmt.Errorf("upsert cart line: %w", err)
	}
	return quantity, nil
}

// RemoveItem decrements the line, deleting it when a single unit is
// left. The schema forbids quantity below 1, so the last unit is
// removed by deleting the row outright and only lines above 1 are
// decremented; both run in one transaction. Returns the remaining
// quantity, 0 meaning the line is gone.
func (r *PostgresCartRepository) RemoveItem(ctx context.Context, customerID, productID int64) (int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin remove item: %w", err)
	}
	defer tx.Rollback()

	del := `DELETE FROM cart_items
	        WHERE cart_id = $1 AND product_id = $2 AND quantity = 1`
	res, err := tx.ExecContext(ctx, del, customerID, productID)
	if err != nil {
		return 0, fmt.Errorf("delete last cart unit: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if deleted > 0 {
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("commit remove item: %w", err)
		}
		return 0, nil
	}

	query := `UPDATE cart_items
	          SET quantity = quantity - 1
	          WHERE cart_id = $1 AND product_id = $2 AND quantity > 1
	          RETURNING quantity`

	var quantity int32
	err = tx.QueryRowContext(ctx, query, customerID, productID).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCartLineNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("decrement cart line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit remove item: %w", err)
	}
	return quantity, nil
}

func (r *PostgresCartRepository) ListItems(ctx context.Context, customerID int64) ([]domain.CartItem, error) {
	query := `SELECT ci.quantity, p.id, p.name, p.kind, p.price, p.description
	          FROM cart_items ci
	          LEFT JOIN product p ON p.id = ci.product_id
	          WHERE ci.cart_id = $1
	          ORDER BY ci.added_at`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		var productID sql.NullInt64
		var name sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&item.Quantity, &productID, &name, &item.Product.Kind, &price, &item.Product.Description); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if !productID.Valid {
			// a line pointing at a product the catalog no longer has
			return nil, ErrInconsistentCart
		}
		item.Product.ID = productID.Int64
		item.Product.Name = name.String
		item.Product.Price = price.Float64
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// Total sums quantity * price at the catalog's current price. Live
// pricing: a price change after AddItem shows up here immediately.
func (r *PostgresCartRepository) Total(ctx context.Context, customerID int64) (float64, error) {
	query := `SELECT COUNT(*) FILTER (WHERE p.id IS NULL),
	                 COALESCE(SUM(ci.quantity * p.price), 0)
	          FROM cart_items ci
	          LEFT JOIN product p ON p.id = ci.product_id
	          WHERE ci.cart_id = $1`

	var orphans int
	var total float64
	if err := r.db.QueryRowContext(ctx, query, customerID).Scan(&orphans, &total); err != nil {
		return 0, fmt.Errorf("query cart total: %w", err)
	}
	if orphans > 0 {
		return 0, ErrInconsistentCart
	}
	return total, nil
}

func (r *PostgresCartRepository) Clear(ctx context.Context, customerID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, customerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
