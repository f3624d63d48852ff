package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/grosnap/backend/internal/domain"
)

// Supported catalog drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects a catalog store
type Options struct {
	Driver   string
	DSN      string
	SeedFile string
	MaxConns int
	MinConns int
}

// SchemaManager is implemented by the SQL-backed stores
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
	ResetSchema(ctx context.Context) error
}

// Open connects the configured store. The memory store is seeded from
// SeedFile, or with the demo shops when no file is given.
func Open(ctx context.Context, opts Options, logger *zerolog.Logger) (domain.Catalog, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	switch opts.Driver {
	case DriverMemory, "":
		store := NewMemoryCatalog()
		seed := DemoSeed()
		if opts.SeedFile != "" {
			var err error
			if seed, err = LoadSeed(opts.SeedFile); err != nil {
				return nil, err
			}
		}
		stats, err := Apply(ctx, store, seed)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Int("shops", stats.Shops).
			Int("products", stats.Products).
			Msg("In-memory catalog seeded")
		return store, nil

	case DriverSQLite:
		store, err := NewSQLiteCatalog(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", opts.DSN).Msg("SQLite catalog opened")
		return store, nil

	case DriverPostgres:
		store, err := NewPostgresCatalog(ctx, PostgresConfig{
			DSN:      opts.DSN,
			MaxConns: opts.MaxConns,
			MinConns: opts.MinConns,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("PostgreSQL catalog connected")
		return store, nil

	default:
		return nil, fmt.Errorf("%w: unknown catalog driver %q", domain.ErrInvalidInput, opts.Driver)
	}
}
