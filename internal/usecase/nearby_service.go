package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/metrics"
	"github.com/grosnap/backend/internal/telemetry"
)

// NearbyServiceConfig holds configuration for the nearby service
type NearbyServiceConfig struct {
	DefaultRadiusKm float64
	POICacheTTL     time.Duration
}

// NearbyService ranks catalog shops and map POIs around a user
type NearbyService struct {
	catalog       domain.CatalogRepository
	pois          domain.POIProvider
	cache         domain.CacheRepository[[]domain.GeoCandidate]
	defaultRadius float64
	cacheTTL      time.Duration
	metrics       *metrics.Recorder
	logger        *zerolog.Logger
}

// NewNearbyService creates a new nearby service. pois and cache may be nil
// when the POI proxy is not configured.
func NewNearbyService(
	catalog domain.CatalogRepository,
	pois domain.POIProvider,
	cache domain.CacheRepository[[]domain.GeoCandidate],
	recorder *metrics.Recorder,
	logger *zerolog.Logger,
	config NearbyServiceConfig,
) *NearbyService {
	radius := config.DefaultRadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}

	cacheTTL := config.POICacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &NearbyService{
		catalog:       catalog,
		pois:          pois,
		cache:         cache,
		defaultRadius: radius,
		cacheTTL:      cacheTTL,
		metrics:       recorder,
		logger:        logger,
	}
}

// DefaultRadius returns the radius applied when callers pass zero
func (s *NearbyService) DefaultRadius() float64 {
	return s.defaultRadius
}

// NearbyShops returns catalog shops within radiusKm of user, closest first
func (s *NearbyService) NearbyShops(ctx context.Context, user *domain.Coordinate, radiusKm float64) ([]domain.ProximityResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "NearbyService.NearbyShops")
	defer span.End()

	if radiusKm <= 0 {
		radiusKm = s.defaultRadius
	}
	span.SetAttributes(attribute.Float64("radius_km", radiusKm))

	// validate before touching the catalog
	if _, err := ProximityFilter(user, nil, radiusKm); err != nil {
		return nil, err
	}

	shops, err := s.catalog.ListShops(ctx)
	if err != nil {
		s.recordUpstreamError("catalog")
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	candidates := make([]domain.GeoCandidate, len(shops))
	for i, shop := range shops {
		candidates[i] = ShopToCandidate(shop)
	}

	results, err := ProximityFilter(user, candidates, radiusKm)
	if err != nil {
		return nil, err
	}
	s.recordNearby("catalog", results)

	return results, nil
}

// NearbyPOIs runs an Overpass query and ranks the returned places around user
func (s *NearbyService) NearbyPOIs(ctx context.Context, query string, user *domain.Coordinate, radiusKm float64) ([]domain.ProximityResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "NearbyService.NearbyPOIs")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if radiusKm <= 0 {
		radiusKm = s.defaultRadius
	}
	if _, err := ProximityFilter(user, nil, radiusKm); err != nil {
		return nil, err
	}
	if s.pois == nil {
		return nil, fmt.Errorf("%w: POI provider not configured", domain.ErrUpstreamFailure)
	}

	candidates, err := s.lookupPOIs(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := ProximityFilter(user, candidates, radiusKm)
	if err != nil {
		return nil, err
	}
	s.recordNearby("overpass", results)

	return results, nil
}

// lookupPOIs serves candidates from cache or the provider.
// Flow: check cache -> query provider -> cache -> return
func (s *NearbyService) lookupPOIs(ctx context.Context, query string) ([]domain.GeoCandidate, error) {
	key := poiCacheKey(query)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			s.recordPOICache(true)
			return cached, nil
		}
		s.recordPOICache(false)
	}

	candidates, err := s.pois.Search(ctx, query)
	if err != nil {
		s.recordUpstreamError("overpass")
		if errors.Is(err, domain.ErrUpstreamFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, candidates, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache POI results")
		}
	}

	return candidates, nil
}

// ShopToCandidate converts a catalog shop into a proximity candidate
func ShopToCandidate(shop domain.Shop) domain.GeoCandidate {
	candidate := domain.GeoCandidate{
		ID:      strconv.FormatInt(shop.ID, 10),
		Name:    shop.Name,
		Address: shop.Address,
	}
	if shop.Coordinate != nil {
		coord := *shop.Coordinate
		candidate.Coordinate = &coord
	}
	return candidate
}

// poiCacheKey creates a compact cache key from an Overpass query.
// Format: "poi:{sha256(trimmed query)}"
func poiCacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(query)))
	return "poi:" + hex.EncodeToString(sum[:])
}

func (s *NearbyService) recordNearby(source string, results []domain.ProximityResult) {
	if s.metrics == nil {
		return
	}
	nearest := 0.0
	if len(results) > 0 {
		nearest = results[0].DistanceKm
	}
	s.metrics.RecordNearby(source, len(results), nearest)
}

func (s *NearbyService) recordUpstreamError(dep string) {
	if s.metrics != nil {
		s.metrics.RecordUpstreamError(dep)
	}
}

func (s *NearbyService) recordPOICache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordPOICache(hit)
	}
}
