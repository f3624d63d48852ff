package catalog

import (
	"strings"

	"github.com/grosnap/backend/internal/domain"
)

// Table names match the legacy schema so existing databases keep working
const (
	tableShopkeepers = "shopkeepers"
	tableShops       = "kirana_shops"
	tableProducts    = "products"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS shopkeepers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS kirana_shops (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		owner_id INTEGER REFERENCES shopkeepers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		shop_id INTEGER NOT NULL REFERENCES kirana_shops(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_shop_id ON products(shop_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS shopkeepers (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL DEFAULT '',
		email VARCHAR(120) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS kirana_shops (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		address VARCHAR(200) NOT NULL DEFAULT '',
		phone VARCHAR(15) NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		owner_id BIGINT REFERENCES shopkeepers(id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		image_url VARCHAR(300) NOT NULL DEFAULT '',
		category VARCHAR(100) NOT NULL DEFAULT '',
		shop_id BIGINT NOT NULL REFERENCES kirana_shops(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_shop_id ON products(shop_id)`,
}

// drop order respects foreign keys
var dropTables = []string{
	"DROP TABLE IF EXISTS " + tableProducts,
	"DROP TABLE IF EXISTS " + tableShops,
	"DROP TABLE IF EXISTS " + tableShopkeepers,
}

// likePattern escapes LIKE wildcards in s and wraps it for a substring match
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func coordinateFrom(lat, lon *float64) *domain.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return &domain.Coordinate{Latitude: *lat, Longitude: *lon}
}

func latLon(c *domain.Coordinate) (lat, lon *float64) {
	if c == nil {
		return nil, nil
	}
	la, lo := c.Latitude, c.Longitude
	return &la, &lo
}
