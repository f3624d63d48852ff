package domain

import "time"

// Cart is owned by the client session and passed by value into order placement
type Cart struct {
	Lines []CartLine `json:"items"`
}

// CartLine is a product and the requested quantity
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Customer identifies who placed an order
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Notification channels
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelNone     = "none"
)

// Order is the result of checking out a cart
type Order struct {
	ID          string      `json:"id"`
	ShopID      int64       `json:"shop_id"`
	ShopName    string      `json:"shop_name"`
	Customer    Customer    `json:"customer"`
	Lines       []OrderLine `json:"lines"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee"`
	Total       float64     `json:"total"`
	Channel     string      `json:"channel"`
	RedirectURL string      `json:"redirect_url,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderLine is a priced cart line
type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"line_total"`
}

// Notification is an order summary addressed to a shopkeeper
type Notification struct {
	Destination string
	Subject     string
	Message     string
}
