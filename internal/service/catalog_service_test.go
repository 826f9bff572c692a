package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/NerdyPepper/furby/internal/cache"
	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProductRepository struct {
	m        sync.Mutex
	nextID   int64
	products map[int64]*domain.Product
	getCalls int
	err      error
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	byID := make(map[int64]*domain.Product)
	var maxID int64
	for _, p := range products {
		byID[p.ID] = p
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return &mockProductRepository{nextID: maxID + 1, products: byID}
}

func (m *mockProductRepository) Create(_ context.Context, product *domain.NewProduct) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	created := &domain.Product{
		ID:          m.nextID,
		Name:        product.Name,
		Kind:        product.Kind,
		Price:       product.Price,
		Description: product.Description,
	}
	m.nextID++
	m.products[created.ID] = created
	return created, nil
}

func (m *mockProductRepository) GetAll(context.Context) ([]*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var products []*domain.Product
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) Update(_ context.Context, id int64, product *domain.NewProduct) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[id] = &domain.Product{
		ID:          id,
		Name:        product.Name,
		Kind:        product.Kind,
		Price:       product.Price,
		Description: product.Description,
	}
	return nil
}

type mockProductCache struct {
	m        sync.Mutex
	products map[int64]*domain.Product
	err      error
}

func newMockProductCache() *mockProductCache {
	return &mockProductCache{products: make(map[int64]*domain.Product)}
}

func (m *mockProductCache) Get(_ context.Context, productID int64) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *mockProductCache) Set(_ context.Context, product *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[product.ID] = product
	return m.err
}

func (m *mockProductCache) Delete(_ context.Context, productID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, productID)
	return m.err
}

func (m *mockProductCache) has(productID int64) bool {
	m.m.Lock()
	defer m.m.Unlock()
	_, ok := m.products[productID]
	return ok
}

func TestGetProduct_CacheHitSkipsRepo(t *testing.T) {
	repo := newMockProductRepository()
	productCache := newMockProductCache()
	require.NoError(t, productCache.Set(context.Background(), &domain.Product{ID: 7, Name: "Plush owl", Price: 9.99}))

	sut := NewCatalogService(repo, productCache)
	product, err := sut.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Plush owl", product.Name)
	assert.Zero(t, repo.getCalls)
}

func TestGetProduct_CacheMissFallsThrough(t *testing.T) {
	repo := newMockProductRepository(&domain.Product{ID: 7, Name: "Plush owl", Price: 9.99})
	productCache := newMockProductCache()

	sut := NewCatalogService(repo, productCache)
	product, err := sut.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)

	// cache fill is async
	assert.Eventually(t, func() bool { return productCache.has(7) }, time.Second, 10*time.Millisecond)
}

func TestGetProduct_NotFound(t *testing.T) {
	sut := NewCatalogService(newMockProductRepository(), newMockProductCache())

	_, err := sut.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	repo := newMockProductRepository(&domain.Product{ID: 7, Name: "Plush owl", Price: 9.99})
	productCache := newMockProductCache()
	require.NoError(t, productCache.Set(context.Background(), &domain.Product{ID: 7, Name: "Plush owl", Price: 9.99}))

	sut := NewCatalogService(repo, productCache)
	err := sut.UpdateProduct(context.Background(), 7, &domain.NewProduct{Name: "Plush owl", Price: 12.50})
	require.NoError(t, err)

	assert.False(t, productCache.has(7))

	product, err := sut.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 12.50, product.Price, 1e-9)
}
