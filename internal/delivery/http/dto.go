package http

import "github.com/grosnap/backend/internal/domain"

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// NearbyRequest is the body of POST /api/nearby
type NearbyRequest struct {
	Lat      *float64 `json:"lat" jsonschema:"required"`
	Lng      *float64 `json:"lng" jsonschema:"required"`
	RadiusKm float64  `json:"radius_km,omitempty"`
}

// NearbyShop is a catalog shop with its distance from the user
type NearbyShop struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

// NearbyResponse lists shops closest first
type NearbyResponse struct {
	Shops []NearbyShop `json:"shops"`
}

// OverpassRequest is the body of POST /api/overpass
type OverpassRequest struct {
	Query    string   `json:"query" jsonschema:"required"`
	UserLat  *float64 `json:"user_lat" jsonschema:"required"`
	UserLon  *float64 `json:"user_lon" jsonschema:"required"`
	RadiusKm float64  `json:"radius_km,omitempty"`
}

// OverpassElement is a map place ranked by distance
type OverpassElement struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address,omitempty"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Distance float64 `json:"distance"`
}

// OverpassResponse lists places closest first
type OverpassResponse struct {
	Elements []OverpassElement `json:"elements"`
}

// FindItemsRequest is the body of POST /find-items
type FindItemsRequest struct {
	Text string `json:"text" jsonschema:"required"`
}

// FindItemsResponse holds the per-store reports and the summary line
type FindItemsResponse struct {
	Message      string               `json:"message"`
	TotalFound   int                  `json:"total_found"`
	TotalItems   int                  `json:"total_items"`
	StoreResults []domain.MatchReport `json:"store_results"`
}

// UploadResponse is returned by POST /upload
type UploadResponse struct {
	Message string   `json:"message"`
	Text    string   `json:"text"`
	Items   []string `json:"items"`
}

// ShopsResponse is returned by GET /api/shops
type ShopsResponse struct {
	Shops []domain.Shop `json:"shops"`
}

// ShopDetailResponse is returned by GET /api/shops/:id
type ShopDetailResponse struct {
	Shop               domain.Shop                 `json:"shop"`
	Categories         []string                    `json:"categories"`
	ProductsByCategory map[string][]domain.Product `json:"products_by_category"`
}

// SearchResponse is returned by GET /api/products/search
type SearchResponse struct {
	Query   string           `json:"query"`
	Results []domain.Product `json:"results"`
}

// OrderRequest is the body of POST /api/orders
type OrderRequest struct {
	Items    []domain.CartLine `json:"items" jsonschema:"required"`
	Customer domain.Customer   `json:"customer"`
}

// OrderResponse wraps a placed order
type OrderResponse struct {
	Order *domain.Order `json:"order"`
}

// ProductRequest is the body of shopkeeper product create and update calls
type ProductRequest struct {
	ShopID   int64   `json:"shop_id"`
	Name     string  `json:"name" jsonschema:"required"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// ProductResponse wraps a created or updated product
type ProductResponse struct {
	Product domain.Product `json:"product"`
}

func (r ProductRequest) toProduct() domain.Product {
	return domain.Product{
		ShopID:   r.ShopID,
		Name:     r.Name,
		Price:    r.Price,
		Stock:    r.Stock,
		Category: r.Category,
		ImageURL: r.ImageURL,
	}
}
