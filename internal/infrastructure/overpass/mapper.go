package overpass

import (
	"fmt"
	"strings"

	"github.com/grosnap/backend/internal/domain"
)

// Response is the subset of the Overpass JSON output the client reads
type Response struct {
	Elements []Element `json:"elements"`
}

// Element is a node, way or relation. Ways and relations carry a center
// when the query asks for "out center".
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the computed midpoint of a way or relation
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Address tags in display order
var addressTags = []string{"addr:housenumber", "addr:street", "addr:suburb", "addr:city", "addr:postcode"}

// MapToCandidates converts Overpass elements to proximity candidates
func MapToCandidates(elements []Element) []domain.GeoCandidate {
	candidates := make([]domain.GeoCandidate, 0, len(elements))
	for _, el := range elements {
		candidates = append(candidates, MapToCandidate(el))
	}
	return candidates
}

// MapToCandidate converts a single element. ID is "type/id", e.g. "node/123".
func MapToCandidate(el Element) domain.GeoCandidate {
	return domain.GeoCandidate{
		ID:         fmt.Sprintf("%s/%d", el.Type, el.ID),
		Name:       elementName(el.Tags),
		Address:    elementAddress(el.Tags),
		Coordinate: elementPosition(el),
	}
}

// elementPosition prefers the node position and falls back to the center
func elementPosition(el Element) *domain.Coordinate {
	if el.Lat != nil && el.Lon != nil {
		return &domain.Coordinate{Latitude: *el.Lat, Longitude: *el.Lon}
	}
	if el.Center != nil {
		return &domain.Coordinate{Latitude: el.Center.Lat, Longitude: el.Center.Lon}
	}
	return nil
}

func elementName(tags map[string]string) string {
	for _, key := range []string{"name", "name:en", "brand"} {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return ""
}

func elementAddress(tags map[string]string) string {
	if full := strings.TrimSpace(tags["addr:full"]); full != "" {
		return full
	}

	parts := make([]string, 0, len(addressTags))
	for _, key := range addressTags {
		if v := strings.TrimSpace(tags[key]); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
