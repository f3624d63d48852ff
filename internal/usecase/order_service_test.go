package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/metrics"
)

func newOrderCatalog() *MockCatalog {
	c := NewMockCatalog()
	c.addShopkeeper(domain.Shopkeeper{ID: 7, Name: "Ramesh", Email: "ramesh@example.com"})
	c.addShopkeeper(domain.Shopkeeper{ID: 8, Name: "Suresh"})
	c.addShop(domain.Shop{ID: 1, Name: "Sharma Kirana", Phone: "+91 98765-43210", OwnerID: 7})
	c.addShop(domain.Shop{ID: 2, Name: "Gupta Store", OwnerID: 7})
	c.addShop(domain.Shop{ID: 3, Name: "Silent Store", OwnerID: 8})
	c.addProduct(domain.Product{ID: 10, ShopID: 1, Name: "Milk", Price: 30})
	c.addProduct(domain.Product{ID: 11, ShopID: 1, Name: "Bread", Price: 45.5})
	c.addProduct(domain.Product{ID: 20, ShopID: 2, Name: "Sugar", Price: 50})
	c.addProduct(domain.Product{ID: 30, ShopID: 3, Name: "Tea", Price: 120})
	return c
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
}

func TestOrderServicePlaceOrderWhatsApp(t *testing.T) {
	notifier := &MockNotifier{}
	svc := NewOrderService(newOrderCatalog(), notifier, metrics.NewRecorder(), nil,
		OrderServiceConfig{DeliveryFee: 25, Now: fixedNow})

	cart := domain.Cart{Lines: []domain.CartLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	}}
	customer := domain.Customer{Name: "Anita", Phone: "9000000000"}

	order, err := svc.PlaceOrder(context.Background(), cart, customer)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	if order.ID == "" {
		t.Error("expected order ID")
	}
	if order.ShopID != 1 || order.ShopName != "Sharma Kirana" {
		t.Errorf("shop = (%d, %q), want (1, Sharma Kirana)", order.ShopID, order.ShopName)
	}
	if order.Subtotal != 105.5 {
		t.Errorf("Subtotal = %v, want 105.5", order.Subtotal)
	}
	if order.Total != 130.5 {
		t.Errorf("Total = %v, want 130.5", order.Total)
	}
	if !order.CreatedAt.Equal(fixedNow()) {
		t.Errorf("CreatedAt = %v, want %v", order.CreatedAt, fixedNow())
	}
	if order.Channel != domain.ChannelWhatsApp {
		t.Errorf("Channel = %q, want %q", order.Channel, domain.ChannelWhatsApp)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("email sent for shop with phone: %+v", notifier.sent)
	}

	u, err := url.Parse(order.RedirectURL)
	if err != nil {
		t.Fatalf("RedirectURL parse error = %v", err)
	}
	if u.Host != "wa.me" || u.Path != "/919876543210" {
		t.Errorf("RedirectURL = %q, want wa.me/919876543210", order.RedirectURL)
	}
	text := u.Query().Get("text")
	for _, want := range []string{
		"Order Summary:",
		"Milk x 2 = ₹60",
		"Bread x 1 = ₹45.50",
		"Total: ₹130.50",
		"Customer Name: Anita",
		"Customer Phone: 9000000000",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestOrderServicePlaceOrderEmail(t *testing.T) {
	notifier := &MockNotifier{}
	svc := NewOrderService(newOrderCatalog(), notifier, nil, nil, OrderServiceConfig{DeliveryFee: 25})

	cart := domain.Cart{Lines: []domain.CartLine{{ProductID: 20, Quantity: 3}}}
	order, err := svc.PlaceOrder(context.Background(), cart, domain.Customer{Name: "Anita"})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	if order.Channel != domain.ChannelEmail {
		t.Errorf("Channel = %q, want %q", order.Channel, domain.ChannelEmail)
	}
	if order.RedirectURL != "" {
		t.Errorf("RedirectURL = %q, want empty", order.RedirectURL)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("sent = %d notifications, want 1", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.Destination != "ramesh@example.com" {
		t.Errorf("Destination = %q", n.Destination)
	}
	for _, want := range []string{"Hello Ramesh", "Sugar x 3 = ₹150", "Total: ₹175", "Phone: Not provided"} {
		if !strings.Contains(n.Message, want) {
			t.Errorf("email missing %q:\n%s", want, n.Message)
		}
	}
}

func TestOrderServiceNotificationFailureDoesNotFailOrder(t *testing.T) {
	notifier := &MockNotifier{err: errors.New("smtp: connection refused")}
	svc := NewOrderService(newOrderCatalog(), notifier, metrics.NewRecorder(), nil, OrderServiceConfig{})

	cart := domain.Cart{Lines: []domain.CartLine{{ProductID: 20, Quantity: 1}}}
	order, err := svc.PlaceOrder(context.Background(), cart, domain.Customer{Name: "Anita"})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v, want nil", err)
	}
	if order.Total != 50 {
		t.Errorf("Total = %v, want 50", order.Total)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("sent = %d, want exactly one attempt", len(notifier.sent))
	}
}

func TestOrderServiceNoChannel(t *testing.T) {
	testCases := []struct {
		name     string
		notifier domain.Notifier
		product  int64
	}{
		{name: "no email notifier", notifier: nil, product: 20},
		{name: "owner without email", notifier: &MockNotifier{}, product: 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewOrderService(newOrderCatalog(), tc.notifier, nil, nil, OrderServiceConfig{})
			cart := domain.Cart{Lines: []domain.CartLine{{ProductID: tc.product, Quantity: 1}}}

			order, err := svc.PlaceOrder(context.Background(), cart, domain.Customer{Name: "Anita"})
			if err != nil {
				t.Fatalf("PlaceOrder() error = %v", err)
			}
			if order.Channel != domain.ChannelNone {
				t.Errorf("Channel = %q, want %q", order.Channel, domain.ChannelNone)
			}
		})
	}
}

func TestOrderServicePlaceOrderErrors(t *testing.T) {
	testCases := []struct {
		name    string
		cart    domain.Cart
		wantErr error
	}{
		{
			name:    "empty cart",
			cart:    domain.Cart{},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "zero quantity",
			cart:    domain.Cart{Lines: []domain.CartLine{{ProductID: 10, Quantity: 0}}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown product",
			cart:    domain.Cart{Lines: []domain.CartLine{{ProductID: 999, Quantity: 1}}},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "products from two shops",
			cart: domain.Cart{Lines: []domain.CartLine{
				{ProductID: 10, Quantity: 1},
				{ProductID: 20, Quantity: 1},
			}},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewOrderService(newOrderCatalog(), nil, nil, nil, OrderServiceConfig{DeliveryFee: 25})
			_, err := svc.PlaceOrder(context.Background(), tc.cart, domain.Customer{Name: "Anita"})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("PlaceOrder() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{in: 50, want: "50"},
		{in: 0, want: "0"},
		{in: 12.5, want: "12.50"},
		{in: 99.999, want: "100.00"},
	}

	for _, tc := range testCases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizePhone(t *testing.T) {
	if got := sanitizePhone("+91 (987) 654-3210"); got != "919876543210" {
		t.Errorf("sanitizePhone() = %q, want 919876543210", got)
	}
	if got := sanitizePhone("n/a"); got != "" {
		t.Errorf("sanitizePhone() = %q, want empty", got)
	}
}
