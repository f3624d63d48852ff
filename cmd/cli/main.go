package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/grosnap/backend/config"
	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/infrastructure/catalog"
)

var (
	cfg          *config.Config
	logger       *zerolog.Logger
	driverFlag   string
	dsnFlag      string
	seedFileFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grosnap",
	Short: "GroSnap CLI - catalog and shopping-list tools",
	Long: `Command line tools for the GroSnap grocery backend. Computes distances,
ranks nearby shops, matches shopping lists against shop inventories, and
manages the catalog database (schema, seeding and product export).`,
	PersistentPreRunE: persistentPreRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "catalog driver: memory, sqlite or postgres (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "catalog DSN or sqlite path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&seedFileFlag, "seed-file", "", "seed file for the memory catalog (overrides config)")
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		// Config is optional for the CLI, flags and defaults still apply
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	logger = initLogger()
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Logs go to stderr so command output can be piped
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// catalogOptions merges config with the persistent flags
func catalogOptions() catalog.Options {
	opts := catalog.Options{Driver: catalog.DriverMemory}
	if cfg != nil {
		opts = catalog.Options{
			Driver:   cfg.Catalog.Driver,
			DSN:      cfg.Catalog.DSN,
			SeedFile: cfg.Catalog.SeedFile,
			MaxConns: cfg.Catalog.MaxConns,
			MinConns: cfg.Catalog.MinConns,
		}
	}
	if driverFlag != "" {
		opts.Driver = driverFlag
	}
	if dsnFlag != "" {
		opts.DSN = dsnFlag
	}
	if seedFileFlag != "" {
		opts.SeedFile = seedFileFlag
	}
	return opts
}

func openCatalog(ctx context.Context) (domain.Catalog, error) {
	store, err := catalog.Open(ctx, catalogOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
