package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/grosnap/backend/internal/domain"
)

// Seed is the JSON document loaded by the seeder. Each shopkeeper owns at most one shop.
type Seed struct {
	Shopkeepers []SeedShopkeeper `json:"shopkeepers"`
}

// SeedShopkeeper is a shopkeeper and the shop they run
type SeedShopkeeper struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Shop  *SeedShop `json:"shop,omitempty"`
}

// SeedShop is a shop with its products
type SeedShop struct {
	Name      string        `json:"name"`
	Address   string        `json:"address,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
	Products  []SeedProduct `json:"products"`
}

// SeedProduct is a product row
type SeedProduct struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// SeedStats counts what Apply created
type SeedStats struct {
	Shopkeepers int
	Shops       int
	Products    int
}

// LoadSeed reads a seed document from path
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	for i, k := range s.Shopkeepers {
		if strings.TrimSpace(k.Email) == "" {
			return fmt.Errorf("%w: shopkeeper %d has no email", domain.ErrInvalidInput, i)
		}
		if k.Shop == nil {
			continue
		}
		if strings.TrimSpace(k.Shop.Name) == "" {
			return fmt.Errorf("%w: shop of %s has no name", domain.ErrInvalidInput, k.Email)
		}
		if (k.Shop.Latitude == nil) != (k.Shop.Longitude == nil) {
			return fmt.Errorf("%w: shop %q needs both latitude and longitude", domain.ErrInvalidInput, k.Shop.Name)
		}
		for _, p := range k.Shop.Products {
			if strings.TrimSpace(p.Name) == "" || p.Price < 0 || p.Stock < 0 {
				return fmt.Errorf("%w: invalid product in shop %q", domain.ErrInvalidInput, k.Shop.Name)
			}
		}
	}
	return nil
}

// Apply writes the seed through w in document order
func Apply(ctx context.Context, w domain.CatalogWriter, seed *Seed) (SeedStats, error) {
	var stats SeedStats
	if err := seed.validate(); err != nil {
		return stats, err
	}

	for _, k := range seed.Shopkeepers {
		ownerID, err := w.CreateShopkeeper(ctx, domain.Shopkeeper{Name: k.Name, Email: k.Email})
		if err != nil {
			return stats, fmt.Errorf("failed to seed shopkeeper %s: %w", k.Email, err)
		}
		stats.Shopkeepers++

		if k.Shop == nil {
			continue
		}
		shop := domain.Shop{
			Name:       k.Shop.Name,
			Address:    k.Shop.Address,
			Phone:      k.Shop.Phone,
			Coordinate: coordinateFrom(k.Shop.Latitude, k.Shop.Longitude),
			OwnerID:    ownerID,
		}
		shopID, err := w.CreateShop(ctx, shop)
		if err != nil {
			return stats, fmt.Errorf("failed to seed shop %q: %w", shop.Name, err)
		}
		stats.Shops++

		for _, p := range k.Shop.Products {
			_, err := w.CreateProduct(ctx, domain.Product{
				ShopID:   shopID,
				Name:     p.Name,
				Price:    p.Price,
				Stock:    p.Stock,
				Category: p.Category,
				ImageURL: p.ImageURL,
			})
			if err != nil {
				return stats, fmt.Errorf("failed to seed product %q: %w", p.Name, err)
			}
			stats.Products++
		}
	}

	return stats, nil
}

// DemoSeed returns the three demo stores used when no catalog is configured
func DemoSeed() *Seed {
	shop := func(name string, lat, lon float64, inventory ...string) *SeedShop {
		products := make([]SeedProduct, len(inventory))
		for i, item := range inventory {
			products[i] = SeedProduct{Name: item, Price: 40, Stock: 10}
		}
		return &SeedShop{Name: name, Latitude: &lat, Longitude: &lon, Products: products}
	}

	return &Seed{Shopkeepers: []SeedShopkeeper{
		{
			Name:  "Store A Owner",
			Email: "store-a@grosnap.local",
			Shop: shop("Store A", 28.6139, 77.2090,
				"apple", "banana", "carrot", "lettuce", "milk", "cheese", "bread",
				"Turmeric", "bay leaf", "Mustard seeds", "Sugar"),
		},
		{
			Name:  "Store B Owner",
			Email: "store-b@grosnap.local",
			Shop: shop("Store B", 28.6304, 77.2177,
				"orange", "milk", "bread", "butter", "carrot", "sugar", "salt"),
		},
		{
			Name:  "Store C Owner",
			Email: "store-c@grosnap.local",
			Shop: shop("Store C", 28.5677, 77.2433,
				"potato", "onion", "carrot", "lettuce", "bread", "milk"),
		},
	}}
}
