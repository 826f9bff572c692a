package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NerdyPepper/furby/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.NewProduct) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, product *domain.NewProduct) error
}

type PostgresProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.NewProduct) (*domain.Product, error) {
	query := `INSERT INTO product (name, kind, price, description)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	created := &domain.Product{
		Name:        product.Name,
		Kind:        product.Kind,
		Price:       product.Price,
		Description: product.Description,
	}
	err := r.db.QueryRowContext(ctx, query,
		product.Name,
		product.Kind,
		product.Price,
		product.Description,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT id, name, kind, price, description FROM product ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Price, &p.Description); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, kind, price, description FROM product WHERE id = $1`

	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Kind, &p.Price, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, id int64, product *domain.NewProduct) error {
	query := `UPDATE product SET name = $1, kind = $2, price = $3, description = $4 WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Kind,
		product.Price,
		product.Description,
		id,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product result: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
