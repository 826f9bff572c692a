package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/NerdyPepper/furby/internal/cache"
	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/repository"
	"golang.org/x/sync/singleflight"
)

// CatalogService serves product reads through a cache and keeps the
// cache coherent across writes. Cart totals and checkout valuation do
// not go through here, they price against the database directly.
type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // prevents cache stampede
}

func NewCatalogService(repo repository.ProductRepository, cache cache.ProductCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(fmt.Sprint(productID), func() (interface{}, error) {
		product, err := s.cache.Get(ctx, productID)
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, errGet := s.repo.GetByID(ctx, productID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(ctx, product); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.NewProduct) (*domain.Product, error) {
	return s.repo.Create(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, productID int64, product *domain.NewProduct) error {
	if err := s.repo.Update(ctx, productID, product); err != nil {
		return err
	}

	s.invalidate(productID)
	return nil
}

func (s *CatalogService) invalidate(productID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, productID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
