package domain

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeoCandidate is a geotagged place that can be ranked by distance.
// A nil Coordinate means the location is unknown.
type GeoCandidate struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Address    string      `json:"address,omitempty"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
}

// ProximityResult pairs a candidate with its distance from the user
type ProximityResult struct {
	Candidate  GeoCandidate `json:"candidate"`
	DistanceKm float64      `json:"distance_km"`
}
