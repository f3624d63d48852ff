package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grosnap/backend/internal/infrastructure/export"
)

var (
	exportFormat string
	exportOut    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every catalog product to an xlsx or csv file",
	Long: `Writes one row per product with the columns id, name, price, stock,
image_url and shop_id. The format defaults to the extension of --out.`,
	Example: `  grosnap export --out products.xlsx
  grosnap export --format csv --out ./exports/products.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: xlsx or csv (default: from --out extension)")
	exportCmd.Flags().StringVar(&exportOut, "out", "products.xlsx", "Output file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	formatName := exportFormat
	if formatName == "" {
		formatName = filepath.Ext(exportOut)
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	products, err := export.CollectProducts(ctx, store)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(exportOut); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}
	defer f.Close()

	if err := export.Write(f, format, products); err != nil {
		return err
	}

	logger.Info().Int("products", len(products)).Str("file", exportOut).Msg("Products exported")
	return f.Close()
}
