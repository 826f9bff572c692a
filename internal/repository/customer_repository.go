package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/lib/pq"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.NewCustomer) (*domain.Customer, error)
	GetByUsername(ctx context.Context, username string) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// Create inserts a customer row. The Password field must already be a
// bcrypt hash; this layer never sees plaintext credentials.
func (r *PostgresCustomerRepository) Create(ctx context.Context, customer *domain.NewCustomer) (*domain.Customer, error) {
	query := `INSERT INTO customer (username, password, phone_number, email_id, address)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	created := &domain.Customer{
		Username:    customer.Username,
		Password:    customer.Password,
		PhoneNumber: customer.PhoneNumber,
		EmailID:     customer.EmailID,
		Address:     customer.Address,
	}
	err := r.db.QueryRowContext(ctx, query,
		customer.Username,
		customer.Password,
		customer.PhoneNumber,
		customer.EmailID,
		customer.Address,
	).Scan(&created.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return created, nil
}

func (r *PostgresCustomerRepository) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	query := `SELECT id, username, password, phone_number, email_id, address
	          FROM customer WHERE username = $1`
	return r.scanCustomer(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT id, username, password, phone_number, email_id, address
	          FROM customer WHERE id = $1`
	return r.scanCustomer(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresCustomerRepository) scanCustomer(row *sql.Row) (*domain.Customer, error) {
	var customer domain.Customer
	err := row.Scan(
		&customer.ID,
		&customer.Username,
		&customer.Password,
		&customer.PhoneNumber,
		&customer.EmailID,
		&customer.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return &customer, nil
}

func (r *PostgresCustomerRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM customer WHERE username = $1)`
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("query username: %w", err)
	}
	return exists, nil
}

func (r *PostgresCustomerRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customer SET password = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password result: %w", err)
	}
	if affected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
