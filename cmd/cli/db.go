package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grosnap/backend/internal/infrastructure/catalog"
)

// initDBCmd represents the init-db command
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Drop and recreate the catalog schema",
	Long: `Drops the shopkeepers, kirana_shops and products tables and creates them
again. All catalog data is lost. Only the sqlite and postgres drivers keep a
schema.`,
	Example: `  grosnap init-db --driver sqlite --dsn ./data/grosnap.db
  grosnap init-db --driver postgres --dsn postgres://grosnap@localhost/grosnap`,
	Args: cobra.NoArgs,
	RunE: runInitDB,
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load shopkeepers, shops and products from a JSON seed file",
	Example: `  grosnap seed ./seed.json --driver sqlite --dsn ./data/grosnap.db`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSeed,
}

func init() {
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(seedCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := catalogOptions()
	if opts.Driver != catalog.DriverSQLite && opts.Driver != catalog.DriverPostgres {
		return fmt.Errorf("init-db needs the sqlite or postgres driver, got %q", opts.Driver)
	}

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	manager, ok := store.(catalog.SchemaManager)
	if !ok {
		return fmt.Errorf("driver %q does not manage a schema", opts.Driver)
	}
	if err := manager.ResetSchema(ctx); err != nil {
		return err
	}

	logger.Info().Str("driver", opts.Driver).Msg("Catalog schema recreated")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := catalogOptions()
	if opts.Driver != catalog.DriverSQLite && opts.Driver != catalog.DriverPostgres {
		return fmt.Errorf("seed needs the sqlite or postgres driver, got %q", opts.Driver)
	}

	seed, err := catalog.LoadSeed(args[0])
	if err != nil {
		return err
	}

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := catalog.Apply(ctx, store, seed)
	if err != nil {
		return err
	}

	logger.Info().
		Int("shopkeepers", stats.Shopkeepers).
		Int("shops", stats.Shops).
		Int("products", stats.Products).
		Msg("Seed applied")
	return nil
}
