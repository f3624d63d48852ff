package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching POI lookups
type CacheRepository[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogRepository is the read side of the shop/product catalog.
// Implementations return value copies; callers may keep them.
type CatalogRepository interface {
	GetShopByID(ctx context.Context, id int64) (Shop, error)
	ListShops(ctx context.Context) ([]Shop, error)
	SearchProductsByName(ctx context.Context, substr string) ([]Product, error)
	ListProductsForShop(ctx context.Context, shopID int64) ([]Product, error)
	GetProductByID(ctx context.Context, id int64) (Product, error)
	GetShopOwner(ctx context.Context, shopID int64) (Shopkeeper, error)
}

// CatalogWriter mutates the catalog. Only shopkeeper flows and the seeder use it.
type CatalogWriter interface {
	CreateShopkeeper(ctx context.Context, sk Shopkeeper) (int64, error)
	CreateShop(ctx context.Context, shop Shop) (int64, error)
	CreateProduct(ctx context.Context, p Product) (int64, error)
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// Catalog is a store that supports both reads and writes
type Catalog interface {
	CatalogRepository
	CatalogWriter
	Close() error
}

// OCRProvider turns image bytes into raw recognized text
type OCRProvider interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// POIProvider runs a points-of-interest query against a map backend
type POIProvider interface {
	Search(ctx context.Context, query string) ([]GeoCandidate, error)
}

// Notifier delivers an order summary to a shopkeeper
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
