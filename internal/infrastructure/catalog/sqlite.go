package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/grosnap/backend/internal/domain"
)

// SQLiteCatalog stores the catalog in a single SQLite file
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog opens (and creates, if needed) the database at path and
// ensures the schema exists.
func NewSQLiteCatalog(ctx context.Context, path string) (*SQLiteCatalog, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", domain.ErrInvalidInput)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c := &SQLiteCatalog{db: db}
	if err := c.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// EnsureSchema creates missing tables
func (c *SQLiteCatalog) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// ResetSchema drops every table and recreates the schema
func (c *SQLiteCatalog) ResetSchema(ctx context.Context) error {
	for _, stmt := range dropTables {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}
	return c.EnsureSchema(ctx)
}

// Close closes the database connection
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

const sqliteShopColumns = `id, name, address, phone, latitude, longitude, COALESCE(owner_id, 0)`

const sqliteProductColumns = `id, shop_id, name, price, stock, category, image_url`

func (c *SQLiteCatalog) GetShopByID(ctx context.Context, id int64) (domain.Shop, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+sqliteShopColumns+` FROM kirana_shops WHERE id = ?`, id)
	shop, err := scanSQLiteShop(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shop{}, fmt.Errorf("%w: shop %d", domain.ErrNotFound, id)
	}
	return shop, err
}

func (c *SQLiteCatalog) ListShops(ctx context.Context) ([]domain.Shop, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+sqliteShopColumns+` FROM kirana_shops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := []domain.Shop{}
	for rows.Next() {
		shop, err := scanSQLiteShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

func (c *SQLiteCatalog) SearchProductsByName(ctx context.Context, substr string) ([]domain.Product, error) {
	return c.queryProducts(ctx,
		`SELECT `+sqliteProductColumns+` FROM products WHERE lower(name) LIKE lower(?) ESCAPE '\' ORDER BY id`,
		likePattern(substr))
}

func (c *SQLiteCatalog) ListProductsForShop(ctx context.Context, shopID int64) ([]domain.Product, error) {
	return c.queryProducts(ctx, `SELECT `+sqliteProductColumns+` FROM products WHERE shop_id = ? ORDER BY id`, shopID)
}

func (c *SQLiteCatalog) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+sqliteProductColumns+` FROM products WHERE id = ?`, id)
	p, err := scanSQLiteProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return p, err
}

func (c *SQLiteCatalog) GetShopOwner(ctx context.Context, shopID int64) (domain.Shopkeeper, error) {
	var k domain.Shopkeeper
	err := c.db.QueryRowContext(ctx,
		`SELECT k.id, k.name, k.email FROM kirana_shops s JOIN shopkeepers k ON k.id = s.owner_id WHERE s.id = ?`,
		shopID).Scan(&k.ID, &k.Name, &k.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shopkeeper{}, fmt.Errorf("%w: owner of shop %d", domain.ErrNotFound, shopID)
	}
	if err != nil {
		return domain.Shopkeeper{}, fmt.Errorf("failed to query shop owner: %w", err)
	}
	return k, nil
}

func (c *SQLiteCatalog) CreateShopkeeper(ctx context.Context, k domain.Shopkeeper) (int64, error) {
	res, err := c.db.ExecContext(ctx, `INSERT INTO shopkeepers (name, email) VALUES (?, ?)`, k.Name, k.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopkeeper: %w", err)
	}
	return res.LastInsertId()
}

func (c *SQLiteCatalog) CreateShop(ctx context.Context, s domain.Shop) (int64, error) {
	lat, lon := latLon(s.Coordinate)
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO kirana_shops (name, address, phone, latitude, longitude, owner_id) VALUES (?, ?, ?, ?, ?, ?)`,
		s.Name, s.Address, s.Phone, lat, lon, nullableID(s.OwnerID))
	if err != nil {
		return 0, fmt.Errorf("failed to insert shop: %w", err)
	}
	return res.LastInsertId()
}

func (c *SQLiteCatalog) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO products (shop_id, name, price, stock, category, image_url) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ShopID, p.Name, p.Price, p.Stock, p.Category, p.ImageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return res.LastInsertId()
}

func (c *SQLiteCatalog) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, stock = ?, category = ?, image_url = ? WHERE id = ?`,
		p.Name, p.Price, p.Stock, p.Category, p.ImageURL, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireAffected(res, p.ID)
}

func (c *SQLiteCatalog) DeleteProduct(ctx context.Context, id int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireAffected(res, id)
}

func (c *SQLiteCatalog) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanSQLiteProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteShop(row rowScanner) (domain.Shop, error) {
	var (
		s        domain.Shop
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &lat, &lon, &s.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Shop{}, err
		}
		return domain.Shop{}, fmt.Errorf("failed to scan shop: %w", err)
	}
	if lat.Valid && lon.Valid {
		s.Coordinate = &domain.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return s, nil
}

func scanSQLiteProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.ShopID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return nil
}

func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}
