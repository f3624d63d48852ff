package domain

// Shop is a kirana shop as read from the catalog. Inventory holds product
// names and is only populated when the caller asked for it.
type Shop struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Address    string      `json:"address,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	OwnerID    int64       `json:"owner_id,omitempty"`
	Inventory  []string    `json:"inventory,omitempty"`
}

// Product is a catalog entry scoped to one shop
type Product struct {
	ID       int64   `json:"id"`
	ShopID   int64   `json:"shop_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Shopkeeper owns at most one shop
type Shopkeeper struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MatchReport lists which requested items a single shop stocks
type MatchReport struct {
	ShopID        int64    `json:"-"`
	Store         string   `json:"store"`
	FoundItems    []string `json:"found_items"`
	NotFoundItems []string `json:"not_found_items"`
}

// MatchSummary aggregates match reports across shops
type MatchSummary struct {
	TotalFound int    `json:"total_found"`
	TotalItems int    `json:"total_items"`
	Message    string `json:"message"`
}
