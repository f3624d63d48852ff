package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grosnap/backend/internal/domain"
)

// PostgresConfig holds connection pool settings
type PostgresConfig struct {
	DSN         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// PostgresCatalog stores the catalog in PostgreSQL
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog connects a pool and ensures the schema exists
func NewPostgresCatalog(ctx context.Context, cfg PostgresConfig) (*PostgresCatalog, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("error parsing database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		config.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxLifetime > 0 {
		config.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.MaxIdleTime > 0 {
		config.MaxConnIdleTime = cfg.MaxIdleTime
	}
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	c := &PostgresCatalog{pool: pool}
	if err := c.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

// EnsureSchema creates missing tables
func (c *PostgresCatalog) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// ResetSchema drops every table and recreates the schema
func (c *PostgresCatalog) ResetSchema(ctx context.Context) error {
	for _, stmt := range dropTables {
		if _, err := c.pool.Exec(ctx, stmt+" CASCADE"); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}
	return c.EnsureSchema(ctx)
}

// Ping checks the database connection
func (c *PostgresCatalog) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the connection pool
func (c *PostgresCatalog) Close() error {
	c.pool.Close()
	return nil
}

const pgShopColumns = `id, name, address, phone, latitude, longitude, COALESCE(owner_id, 0)`

const pgProductColumns = `id, shop_id, name, price, stock, category, image_url`

func (c *PostgresCatalog) GetShopByID(ctx context.Context, id int64) (domain.Shop, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+pgShopColumns+` FROM kirana_shops WHERE id = $1`, id)
	shop, err := scanPGShop(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Shop{}, fmt.Errorf("%w: shop %d", domain.ErrNotFound, id)
	}
	return shop, err
}

func (c *PostgresCatalog) ListShops(ctx context.Context) ([]domain.Shop, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+pgShopColumns+` FROM kirana_shops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := []domain.Shop{}
	for rows.Next() {
		shop, err := scanPGShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

func (c *PostgresCatalog) SearchProductsByName(ctx context.Context, substr string) ([]domain.Product, error) {
	return c.queryProducts(ctx,
		`SELECT `+pgProductColumns+` FROM products WHERE name ILIKE $1 ORDER BY id`,
		likePattern(substr))
}

func (c *PostgresCatalog) ListProductsForShop(ctx context.Context, shopID int64) ([]domain.Product, error) {
	return c.queryProducts(ctx, `SELECT `+pgProductColumns+` FROM products WHERE shop_id = $1 ORDER BY id`, shopID)
}

func (c *PostgresCatalog) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+pgProductColumns+` FROM products WHERE id = $1`, id)
	p, err := scanPGProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return p, err
}

func (c *PostgresCatalog) GetShopOwner(ctx context.Context, shopID int64) (domain.Shopkeeper, error) {
	var k domain.Shopkeeper
	err := c.pool.QueryRow(ctx,
		`SELECT k.id, k.name, k.email FROM kirana_shops s JOIN shopkeepers k ON k.id = s.owner_id WHERE s.id = $1`,
		shopID).Scan(&k.ID, &k.Name, &k.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Shopkeeper{}, fmt.Errorf("%w: owner of shop %d", domain.ErrNotFound, shopID)
	}
	if err != nil {
		return domain.Shopkeeper{}, fmt.Errorf("failed to query shop owner: %w", err)
	}
	return k, nil
}

func (c *PostgresCatalog) CreateShopkeeper(ctx context.Context, k domain.Shopkeeper) (int64, error) {
	var id int64
	err := c.pool.QueryRow(ctx,
		`INSERT INTO shopkeepers (name, email) VALUES ($1, $2) RETURNING id`,
		k.Name, k.Email).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopkeeper: %w", err)
	}
	return id, nil
}

func (c *PostgresCatalog) CreateShop(ctx context.Context, s domain.Shop) (int64, error) {
	lat, lon := latLon(s.Coordinate)
	var owner *int64
	if s.OwnerID > 0 {
		owner = &s.OwnerID
	}

	var id int64
	err := c.pool.QueryRow(ctx,
		`INSERT INTO kirana_shops (name, address, phone, latitude, longitude, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		s.Name, s.Address, s.Phone, lat, lon, owner).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shop: %w", err)
	}
	return id, nil
}

func (c *PostgresCatalog) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	var id int64
	err := c.pool.QueryRow(ctx,
		`INSERT INTO products (shop_id, name, price, stock, category, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.ShopID, p.Name, p.Price, p.Stock, p.Category, p.ImageURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

func (c *PostgresCatalog) UpdateProduct(ctx context.Context, p domain.Product) error {
	tag, err := c.pool.Exec(ctx,
		`UPDATE products SET name = $1, price = $2, stock = $3, category = $4, image_url = $5 WHERE id = $6`,
		p.Name, p.Price, p.Stock, p.Category, p.ImageURL, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, p.ID)
	}
	return nil
}

func (c *PostgresCatalog) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return nil
}

func (c *PostgresCatalog) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanPGProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanPGShop(row rowScanner) (domain.Shop, error) {
	var (
		s        domain.Shop
		lat, lon *float64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &lat, &lon, &s.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Shop{}, err
		}
		return domain.Shop{}, fmt.Errorf("failed to scan shop: %w", err)
	}
	s.Coordinate = coordinateFrom(lat, lon)
	return s, nil
}

func scanPGProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.ShopID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.ImageURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}
