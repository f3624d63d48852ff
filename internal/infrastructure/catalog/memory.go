// Package catalog provides the shop/product stores behind domain.Catalog:
// an in-memory store for development and tests, SQLite and PostgreSQL.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/grosnap/backend/internal/domain"
)

// MemoryCatalog is a thread-safe in-memory catalog
type MemoryCatalog struct {
	mu          sync.RWMutex
	shopkeepers map[int64]domain.Shopkeeper
	shops       map[int64]domain.Shop
	products    map[int64]domain.Product
	lastID      int64
}

// NewMemoryCatalog creates an empty in-memory catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		shopkeepers: make(map[int64]domain.Shopkeeper),
		shops:       make(map[int64]domain.Shop),
		products:    make(map[int64]domain.Product),
	}
}

func (c *MemoryCatalog) GetShopByID(ctx context.Context, id int64) (domain.Shop, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.shops[id]
	if !ok {
		return domain.Shop{}, fmt.Errorf("%w: shop %d", domain.ErrNotFound, id)
	}
	return copyShop(s), nil
}

func (c *MemoryCatalog) ListShops(ctx context.Context) ([]domain.Shop, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	shops := make([]domain.Shop, 0, len(c.shops))
	for _, s := range c.shops {
		shops = append(shops, copyShop(s))
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].ID < shops[j].ID })
	return shops, nil
}

func (c *MemoryCatalog) SearchProductsByName(ctx context.Context, substr string) ([]domain.Product, error) {
	needle := strings.ToLower(substr)
	return c.filterProducts(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (c *MemoryCatalog) ListProductsForShop(ctx context.Context, shopID int64) ([]domain.Product, error) {
	return c.filterProducts(func(p domain.Product) bool {
		return p.ShopID == shopID
	}), nil
}

func (c *MemoryCatalog) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return p, nil
}

func (c *MemoryCatalog) GetShopOwner(ctx context.Context, shopID int64) (domain.Shopkeeper, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.shops[shopID]
	if !ok {
		return domain.Shopkeeper{}, fmt.Errorf("%w: shop %d", domain.ErrNotFound, shopID)
	}
	k, ok := c.shopkeepers[s.OwnerID]
	if !ok {
		return domain.Shopkeeper{}, fmt.Errorf("%w: owner of shop %d", domain.ErrNotFound, shopID)
	}
	return k, nil
}

func (c *MemoryCatalog) CreateShopkeeper(ctx context.Context, k domain.Shopkeeper) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.shopkeepers {
		if strings.EqualFold(existing.Email, k.Email) {
			return 0, fmt.Errorf("%w: email %q already registered", domain.ErrInvalidInput, k.Email)
		}
	}
	k.ID = c.nextID()
	c.shopkeepers[k.ID] = k
	return k.ID, nil
}

func (c *MemoryCatalog) CreateShop(ctx context.Context, s domain.Shop) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.OwnerID > 0 {
		if _, ok := c.shopkeepers[s.OwnerID]; !ok {
			return 0, fmt.Errorf("%w: shopkeeper %d", domain.ErrNotFound, s.OwnerID)
		}
	}
	s = copyShop(s)
	s.Inventory = nil
	s.ID = c.nextID()
	c.shops[s.ID] = s
	return s.ID, nil
}

func (c *MemoryCatalog) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.shops[p.ShopID]; !ok {
		return 0, fmt.Errorf("%w: shop %d", domain.ErrNotFound, p.ShopID)
	}
	p.ID = c.nextID()
	c.products[p.ID] = p
	return p.ID, nil
}

func (c *MemoryCatalog) UpdateProduct(ctx context.Context, p domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.products[p.ID]
	if !ok {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, p.ID)
	}
	p.ShopID = existing.ShopID
	c.products[p.ID] = p
	return nil
}

func (c *MemoryCatalog) DeleteProduct(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[id]; !ok {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	delete(c.products, id)
	return nil
}

// Close is a no-op
func (c *MemoryCatalog) Close() error {
	return nil
}

// nextID must be called with the write lock held
func (c *MemoryCatalog) nextID() int64 {
	c.lastID++
	return c.lastID
}

func (c *MemoryCatalog) filterProducts(keep func(domain.Product) bool) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []domain.Product{}
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func copyShop(s domain.Shop) domain.Shop {
	if s.Coordinate != nil {
		coord := *s.Coordinate
		s.Coordinate = &coord
	}
	if s.Inventory != nil {
		s.Inventory = append([]string(nil), s.Inventory...)
	}
	return s
}
