package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudcar/shopcache/internal/domain/model"
	"github.com/cloudcar/shopcache/internal/domain/repository"
)

// mockKeyValue provides an in-memory cache.KeyValue with optional overrides.
type mockKeyValue struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration

	getFn    func(ctx context.Context, key string) (string, bool, error)
	setFn    func(ctx context.Context, key, value string, ttl time.Duration) error
	deleteFn func(ctx context.Context, keys ...string) error
}

func newMockKeyValue() *mockKeyValue {
	return &mockKeyValue{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *mockKeyValue) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockKeyValue) Delete(ctx context.Context, keys ...string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, keys...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		delete(m.ttls, key)
	}
	return nil
}

func (m *mockKeyValue) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
			delete(m.ttls, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockKeyValue) ttl(key string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ttl, ok := m.ttls[key]
	return ttl, ok
}

func (m *mockKeyValue) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok
}

// mockObjectStorage provides a configurable mock for repository.ObjectStorage.
type mockObjectStorage struct {
	fetchFn    func(ctx context.Context, key string) ([]byte, error)
	fetchCount atomic.Int32
}

func (m *mockObjectStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	m.fetchCount.Add(1)
	if m.fetchFn != nil {
		return m.fetchFn(ctx, key)
	}
	return nil, repository.ErrObjectNotFound
}

func (m *mockObjectStorage) Ping(ctx context.Context) error {
	return nil
}

// mockCartStore provides an in-memory cache.CartStore with optional overrides.
type mockCartStore struct {
	mu    sync.Mutex
	carts map[string]map[string]int64

	incrementFn func(ctx context.Context, sessionID, productID string, delta int64) (int64, error)
	quantityFn  func(ctx context.Context, sessionID, productID string) (int64, bool, error)
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: make(map[string]map[string]int64)}
}

func (m *mockCartStore) Items(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]model.CartItem, 0, len(m.carts[sessionID]))
	for field, qty := range m.carts[sessionID] {
		productID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		items = append(items, model.CartItem{ProductID: productID, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (m *mockCartStore) Quantity(ctx context.Context, sessionID, productID string) (int64, bool, error) {
	if m.quantityFn != nil {
		return m.quantityFn(ctx, sessionID, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	qty, ok := m.carts[sessionID][productID]
	return qty, ok, nil
}

func (m *mockCartStore) Increment(ctx context.Context, sessionID, productID string, delta int64) (int64, error) {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, sessionID, productID, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.carts[sessionID] == nil {
		m.carts[sessionID] = make(map[string]int64)
	}
	m.carts[sessionID][productID] += delta
	return m.carts[sessionID][productID], nil
}

func (m *mockCartStore) Remove(ctx context.Context, sessionID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts[sessionID], productID)
	return nil
}

// mockProductRepository provides a configurable mock for repository.ProductRepository.
type mockProductRepository struct {
	listFn    func(ctx context.Context) ([]model.Product, error)
	getByIDFn func(ctx context.Context, id int64) (*model.Product, error)
	listCount atomic.Int32
}

func (m *mockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	m.listCount.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrProductNotFound
}
