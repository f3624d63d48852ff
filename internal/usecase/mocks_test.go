package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grosnap/backend/internal/domain"
)

// MockCatalog is an in-memory implementation of domain.Catalog
type MockCatalog struct {
	mu          sync.Mutex
	shops       map[int64]domain.Shop
	products    map[int64]domain.Product
	shopkeepers map[int64]domain.Shopkeeper
	nextID      int64
	listError   error
	listCalls   int
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		shops:       make(map[int64]domain.Shop),
		products:    make(map[int64]domain.Product),
		shopkeepers: make(map[int64]domain.Shopkeeper),
		nextID:      100,
	}
}

func (m *MockCatalog) addShopkeeper(k domain.Shopkeeper) {
	m.shopkeepers[k.ID] = k
}

func (m *MockCatalog) addShop(s domain.Shop) {
	m.shops[s.ID] = s
}

func (m *MockCatalog) addProduct(p domain.Product) {
	m.products[p.ID] = p
}

func (m *MockCatalog) GetShopByID(ctx context.Context, id int64) (domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shops[id]
	if !ok {
		return domain.Shop{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *MockCatalog) ListShops(ctx context.Context) ([]domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listError != nil {
		return nil, m.listError
	}
	shops := make([]domain.Shop, 0, len(m.shops))
	for _, s := range m.shops {
		shops = append(shops, s)
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].ID < shops[j].ID })
	return shops, nil
}

func (m *MockCatalog) SearchProductsByName(ctx context.Context, substr string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.sortedProducts() {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(substr)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockCatalog) ListProductsForShop(ctx context.Context, shopID int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.sortedProducts() {
		if p.ShopID == shopID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockCatalog) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *MockCatalog) GetShopOwner(ctx context.Context, shopID int64) (domain.Shopkeeper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shops[shopID]
	if !ok {
		return domain.Shopkeeper{}, domain.ErrNotFound
	}
	k, ok := m.shopkeepers[s.OwnerID]
	if !ok {
		return domain.Shopkeeper{}, domain.ErrNotFound
	}
	return k, nil
}

func (m *MockCatalog) CreateShopkeeper(ctx context.Context, k domain.Shopkeeper) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	k.ID = m.nextID
	m.shopkeepers[k.ID] = k
	return k.ID, nil
}

func (m *MockCatalog) CreateShop(ctx context.Context, s domain.Shop) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	m.shops[s.ID] = s
	return s.ID, nil
}

func (m *MockCatalog) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *MockCatalog) UpdateProduct(ctx context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *MockCatalog) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MockCatalog) Close() error { return nil }

func (m *MockCatalog) sortedProducts() []domain.Product {
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MockPOIProvider is a mock implementation of domain.POIProvider
type MockPOIProvider struct {
	results []domain.GeoCandidate
	err     error
	calls   int
}

func (m *MockPOIProvider) Search(ctx context.Context, query string) ([]domain.GeoCandidate, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// MockOCRProvider is a mock implementation of domain.OCRProvider
type MockOCRProvider struct {
	text string
	err  error
}

func (m *MockOCRProvider) ExtractText(ctx context.Context, image []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// MockNotifier records every notification it is asked to send
type MockNotifier struct {
	sent []domain.Notification
	err  error
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) error {
	m.sent = append(m.sent, n)
	return m.err
}

// MockCache is a mock implementation of domain.CacheRepository
type MockCache struct {
	data      map[string][]domain.GeoCandidate
	setCalled bool
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]domain.GeoCandidate)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]domain.GeoCandidate, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []domain.GeoCandidate, ttl time.Duration) error {
	m.setCalled = true
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func coord(lat, lon float64) *domain.Coordinate {
	return &domain.Coordinate{Latitude: lat, Longitude: lon}
}
