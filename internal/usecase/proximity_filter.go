package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/grosnap/backend/internal/domain"
)

// DefaultRadiusKm is the search radius used when the caller does not pick one
const DefaultRadiusKm = 5.0

// ProximityFilter ranks candidates by distance from user and keeps those within radiusKm.
// Candidates without a coordinate are dropped. Ties keep their input order.
// The candidates slice is not modified.
func ProximityFilter(user *domain.Coordinate, candidates []domain.GeoCandidate, radiusKm float64) ([]domain.ProximityResult, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user coordinate is required", domain.ErrInvalidInput)
	}
	if !isFinite(user.Latitude) || !isFinite(user.Longitude) {
		return nil, fmt.Errorf("%w: user coordinate must be numeric", domain.ErrInvalidInput)
	}

	results := make([]domain.ProximityResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Coordinate == nil {
			continue
		}
		d := Distance(*user, *c.Coordinate)
		// also rejects NaN distances from malformed candidate coordinates
		if !(d <= radiusKm) {
			continue
		}
		candidate := c
		coord := *c.Coordinate
		candidate.Coordinate = &coord
		results = append(results, domain.ProximityResult{Candidate: candidate, DistanceKm: d})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
