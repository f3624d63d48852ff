package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/metrics"
)

func newNearbyCatalog() *MockCatalog {
	c := NewMockCatalog()
	c.addShop(domain.Shop{ID: 1, Name: "Corner", Coordinate: coord(28.6149, 77.2090)})
	c.addShop(domain.Shop{ID: 2, Name: "Far Away", Coordinate: coord(19.0760, 72.8777)})
	c.addShop(domain.Shop{ID: 3, Name: "No Location"})
	c.addShop(domain.Shop{ID: 4, Name: "Market", Coordinate: coord(28.6339, 77.2090)})
	return c
}

func TestNearbyServiceNearbyShops(t *testing.T) {
	svc := NewNearbyService(newNearbyCatalog(), nil, nil, metrics.NewRecorder(), nil, NearbyServiceConfig{})

	results, err := svc.NearbyShops(context.Background(), coord(28.6139, 77.2090), 0)
	if err != nil {
		t.Fatalf("NearbyShops() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Candidate.ID != "1" || results[1].Candidate.ID != "4" {
		t.Errorf("order = [%s %s], want [1 4]", results[0].Candidate.ID, results[1].Candidate.ID)
	}
}

func TestNearbyServiceRadius(t *testing.T) {
	svc := NewNearbyService(newNearbyCatalog(), nil, nil, nil, nil, NearbyServiceConfig{DefaultRadiusKm: 1})

	if got := svc.DefaultRadius(); got != 1 {
		t.Errorf("DefaultRadius() = %v, want 1", got)
	}

	results, err := svc.NearbyShops(context.Background(), coord(28.6139, 77.2090), 0)
	if err != nil {
		t.Fatalf("NearbyShops() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) with default 1km = %d, want 1", len(results))
	}

	results, err = svc.NearbyShops(context.Background(), coord(28.6139, 77.2090), 2000)
	if err != nil {
		t.Fatalf("NearbyShops() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len(results) with 2000km = %d, want 3", len(results))
	}
}

func TestNearbyServiceInvalidUser(t *testing.T) {
	catalog := newNearbyCatalog()
	svc := NewNearbyService(catalog, nil, nil, nil, nil, NearbyServiceConfig{})

	_, err := svc.NearbyShops(context.Background(), nil, 5)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("NearbyShops() error = %v, want ErrInvalidInput", err)
	}
	if catalog.listCalls != 0 {
		t.Errorf("catalog queried %d times, want 0", catalog.listCalls)
	}
}

func TestNearbyServiceNearbyPOIs(t *testing.T) {
	provider := &MockPOIProvider{results: []domain.GeoCandidate{
		{ID: "node/2", Name: "Fresh Mart", Coordinate: coord(0, 0.02)},
		{ID: "node/1", Name: "Daily Needs", Coordinate: coord(0, 0.01)},
		{ID: "way/3", Name: "Nowhere"},
	}}
	cache := NewMockCache()
	svc := NewNearbyService(newNearbyCatalog(), provider, cache, metrics.NewRecorder(), nil, NearbyServiceConfig{})

	query := `[out:json];node["shop"="convenience"](around:5000,0,0);out;`
	results, err := svc.NearbyPOIs(context.Background(), query, coord(0, 0), 0)
	if err != nil {
		t.Fatalf("NearbyPOIs() error = %v", err)
	}
	if len(results) != 2 || results[0].Candidate.ID != "node/1" {
		t.Errorf("results = %+v, want node/1 then node/2", results)
	}
	if !cache.setCalled {
		t.Error("expected results to be cached")
	}

	// second call is served from cache
	if _, err := svc.NearbyPOIs(context.Background(), query, coord(0, 0), 0); err != nil {
		t.Fatalf("NearbyPOIs() error = %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}

func TestNearbyServiceNearbyPOIsErrors(t *testing.T) {
	testCases := []struct {
		name     string
		provider domain.POIProvider
		query    string
		user     *domain.Coordinate
		wantErr  error
	}{
		{
			name:     "blank query",
			provider: &MockPOIProvider{},
			query:    "  ",
			user:     coord(0, 0),
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "missing user",
			provider: &MockPOIProvider{},
			query:    "q",
			user:     nil,
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:     "provider not configured",
			provider: nil,
			query:    "q",
			user:     coord(0, 0),
			wantErr:  domain.ErrUpstreamFailure,
		},
		{
			name:     "provider failure",
			provider: &MockPOIProvider{err: errors.New("timeout")},
			query:    "q",
			user:     coord(0, 0),
			wantErr:  domain.ErrUpstreamFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewNearbyService(newNearbyCatalog(), tc.provider, nil, nil, nil, NearbyServiceConfig{})
			_, err := svc.NearbyPOIs(context.Background(), tc.query, tc.user, 5)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("NearbyPOIs() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestShopToCandidate(t *testing.T) {
	shop := domain.Shop{ID: 42, Name: "Sharma Kirana", Address: "MG Road", Coordinate: coord(1, 2)}

	c := ShopToCandidate(shop)
	if c.ID != "42" || c.Name != shop.Name || c.Address != shop.Address {
		t.Errorf("ShopToCandidate() = %+v", c)
	}
	c.Coordinate.Latitude = 9
	if shop.Coordinate.Latitude != 1 {
		t.Error("ShopToCandidate() shares the shop coordinate")
	}

	if ShopToCandidate(domain.Shop{ID: 1}).Coordinate != nil {
		t.Error("expected nil coordinate for shop without location")
	}
}

func TestPOICacheKey(t *testing.T) {
	if poiCacheKey(" q ") != poiCacheKey("q") {
		t.Error("poiCacheKey should ignore surrounding whitespace")
	}
	if poiCacheKey("a") == poiCacheKey("b") {
		t.Error("poiCacheKey collision for distinct queries")
	}
}
