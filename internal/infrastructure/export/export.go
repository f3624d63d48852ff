// Package export writes the product catalog as a spreadsheet or CSV file.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/grosnap/backend/internal/domain"
)

// Supported formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// SheetName is the worksheet that holds the product rows
const SheetName = "Products"

// Header is the column order of every export
var Header = []string{"id", "name", "price", "stock", "image_url", "shop_id"}

// ParseFormat accepts a format name or a file extension
func ParseFormat(s string) (string, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, s)
	}
}

// CollectProducts reads every product, shop by shop, in catalog order
func CollectProducts(ctx context.Context, catalog domain.CatalogRepository) ([]domain.Product, error) {
	shops, err := catalog.ListShops(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	var products []domain.Product
	for _, shop := range shops {
		items, err := catalog.ListProductsForShop(ctx, shop.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list products for shop %d: %w", shop.ID, err)
		}
		products = append(products, items...)
	}
	return products, nil
}

// Write encodes products to w in the given format
func Write(w io.Writer, format string, products []domain.Product) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, products)
	case FormatXLSX:
		return writeXLSX(w, products)
	default:
		return fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}
}

func row(p domain.Product) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Name,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.Itoa(p.Stock),
		p.ImageURL,
		strconv.FormatInt(p.ShopID, 10),
	}
}

func writeCSV(w io.Writer, products []domain.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range products {
		if err := cw.Write(row(p)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{p.ID, p.Name, p.Price, p.Stock, p.ImageURL, p.ShopID}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
