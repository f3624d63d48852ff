package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/grosnap/backend/internal/domain"
)

// UncategorizedLabel groups products without a category
const UncategorizedLabel = "Other"

// ShopDetail is a shop with its products grouped by category
type ShopDetail struct {
	Shop               domain.Shop
	ProductsByCategory map[string][]domain.Product
	Categories         []string
}

// CatalogService serves read-only catalog browsing
type CatalogService struct {
	catalog domain.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog domain.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListShops returns every shop
func (s *CatalogService) ListShops(ctx context.Context) ([]domain.Shop, error) {
	return s.catalog.ListShops(ctx)
}

// GetShop returns a shop with its products grouped by category
func (s *CatalogService) GetShop(ctx context.Context, id int64) (*ShopDetail, error) {
	shop, err := s.catalog.GetShopByID(ctx, id)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.ListProductsForShop(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for shop %d: %w", id, err)
	}

	grouped := make(map[string][]domain.Product)
	for _, p := range products {
		category := strings.TrimSpace(p.Category)
		if category == "" {
			category = UncategorizedLabel
		}
		grouped[category] = append(grouped[category], p)
	}

	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return &ShopDetail{Shop: shop, ProductsByCategory: grouped, Categories: categories}, nil
}

// SearchProducts finds products whose name contains q, case-insensitively.
// A blank query returns no results.
func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]domain.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.Product{}, nil
	}
	return s.catalog.SearchProductsByName(ctx, q)
}
