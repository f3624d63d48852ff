package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/metrics"
	"github.com/grosnap/backend/internal/telemetry"
)

// FinderServiceConfig holds configuration for the finder service
type FinderServiceConfig struct {
	Separator        string
	FetchConcurrency int
}

// FindResult is the outcome of matching a shopping list against all shops
type FindResult struct {
	Items   []string
	Reports []domain.MatchReport
	Summary domain.MatchSummary
}

// FinderService resolves a shopping list against every shop's inventory
type FinderService struct {
	catalog          domain.CatalogRepository
	matcher          *InventoryMatcher
	fetchConcurrency int
	metrics          *metrics.Recorder
	logger           *zerolog.Logger
}

// NewFinderService creates a new finder service with dependencies
func NewFinderService(
	catalog domain.CatalogRepository,
	recorder *metrics.Recorder,
	logger *zerolog.Logger,
	config FinderServiceConfig,
) *FinderService {
	concurrency := config.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &FinderService{
		catalog:          catalog,
		matcher:          NewInventoryMatcher(NewTextNormalizer(config.Separator)),
		fetchConcurrency: concurrency,
		metrics:          recorder,
		logger:           logger,
	}
}

// FindItems tokenizes text and matches the items against every shop.
// Flow: tokenize -> load shops + inventories -> match -> summarize
func (s *FinderService) FindItems(ctx context.Context, text string) (*FindResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "FinderService.FindItems")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text provided", domain.ErrInvalidInput)
	}

	items := Tokenize(text)
	return s.match(ctx, items)
}

// MatchItems matches an already tokenized list against every shop
func (s *FinderService) MatchItems(ctx context.Context, items []string) (*FindResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "FinderService.MatchItems")
	defer span.End()

	return s.match(ctx, items)
}

func (s *FinderService) match(ctx context.Context, items []string) (*FindResult, error) {
	shops, err := s.loadShopsWithInventory(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordUpstreamError("catalog")
		}
		return nil, err
	}

	reports := s.matcher.Match(items, shops)
	summary := s.matcher.Summarize(items, reports)

	if s.metrics != nil {
		s.metrics.RecordMatch(len(items), len(shops), summary.TotalFound)
	}
	s.logger.Debug().
		Int("items", len(items)).
		Int("shops", len(shops)).
		Int("found", summary.TotalFound).
		Msg("Matched shopping list")

	return &FindResult{Items: items, Reports: reports, Summary: summary}, nil
}

// loadShopsWithInventory lists shops and fills each one's inventory from
// its products. Inventories are fetched concurrently; order is preserved.
func (s *FinderService) loadShopsWithInventory(ctx context.Context) ([]domain.Shop, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "FinderService.loadShopsWithInventory")
	defer span.End()

	shops, err := s.catalog.ListShops(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	span.SetAttributes(attribute.Int("shops", len(shops)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)

	for i := range shops {
		g.Go(func() error {
			products, err := s.catalog.ListProductsForShop(gctx, shops[i].ID)
			if err != nil {
				return fmt.Errorf("failed to list products for shop %d: %w", shops[i].ID, err)
			}
			inventory := make([]string, len(products))
			for j, p := range products {
				inventory[j] = p.Name
			}
			shops[i].Inventory = inventory
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shops, nil
}
