package usecase

import (
	"fmt"

	"github.com/grosnap/backend/internal/domain"
)

// InventoryMatcher reports, per shop, which requested items appear in the
// shop's inventory. Items match only when their normalized forms are equal.
type InventoryMatcher struct {
	normalizer *TextNormalizer
}

// NewInventoryMatcher creates a matcher comparing names with normalizer
func NewInventoryMatcher(normalizer *TextNormalizer) *InventoryMatcher {
	if normalizer == nil {
		normalizer = NewTextNormalizer(SeparatorSpace)
	}
	return &InventoryMatcher{normalizer: normalizer}
}

// Match evaluates every item against every shop independently and returns
// one report per shop in input order. Items are reported in their original
// form, duplicates included.
func (m *InventoryMatcher) Match(items []string, shops []domain.Shop) []domain.MatchReport {
	normalizedItems := make([]string, len(items))
	for i, item := range items {
		normalizedItems[i] = m.normalizer.Normalize(item)
	}

	reports := make([]domain.MatchReport, 0, len(shops))
	for _, shop := range shops {
		stocked := m.inventorySet(shop.Inventory)

		report := domain.MatchReport{
			ShopID:        shop.ID,
			Store:         shop.Name,
			FoundItems:    []string{},
			NotFoundItems: []string{},
		}
		for i, item := range items {
			if _, ok := stocked[normalizedItems[i]]; ok {
				report.FoundItems = append(report.FoundItems, item)
			} else {
				report.NotFoundItems = append(report.NotFoundItems, item)
			}
		}
		reports = append(reports, report)
	}

	return reports
}

// inventorySet builds the normalized lookup set for one shop.
// Entries that normalize to nothing are not product names and are skipped.
func (m *InventoryMatcher) inventorySet(inventory []string) map[string]struct{} {
	set := make(map[string]struct{}, len(inventory))
	for _, entry := range inventory {
		key := m.normalizer.Normalize(entry)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// Summarize totals found items across all reports. An item stocked by several
// shops is counted once per shop, so TotalFound may exceed TotalItems.
func (m *InventoryMatcher) Summarize(items []string, reports []domain.MatchReport) domain.MatchSummary {
	totalFound := 0
	for _, r := range reports {
		totalFound += len(r.FoundItems)
	}
	totalItems := len(items)

	return domain.MatchSummary{
		TotalFound: totalFound,
		TotalItems: totalItems,
		Message:    fmt.Sprintf("%d out of %d items found.", totalFound, totalItems),
	}
}
