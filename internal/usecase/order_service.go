package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/metrics"
	"github.com/grosnap/backend/internal/telemetry"
)

// WhatsAppBaseURL is the chat deep-link prefix for shop phone numbers
const WhatsAppBaseURL = "https://wa.me/"

// OrderServiceConfig holds configuration for the order service
type OrderServiceConfig struct {
	DeliveryFee    float64
	CurrencySymbol string
	Now            func() time.Time
}

// OrderService turns a cart into an order and notifies the shopkeeper
type OrderService struct {
	catalog     domain.CatalogRepository
	email       domain.Notifier
	deliveryFee float64
	currency    string
	now         func() time.Time
	metrics     *metrics.Recorder
	logger      *zerolog.Logger
}

// NewOrderService creates a new order service. email may be nil, in which
// case shops without a phone number are not notified.
func NewOrderService(
	catalog domain.CatalogRepository,
	email domain.Notifier,
	recorder *metrics.Recorder,
	logger *zerolog.Logger,
	config OrderServiceConfig,
) *OrderService {
	currency := config.CurrencySymbol
	if currency == "" {
		currency = "₹"
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &OrderService{
		catalog:     catalog,
		email:       email,
		deliveryFee: config.DeliveryFee,
		currency:    currency,
		now:         now,
		metrics:     recorder,
		logger:      logger,
	}
}

// PlaceOrder prices the cart, then notifies the shop by chat link or email.
// Notification failures are logged and do not fail the order.
func (s *OrderService) PlaceOrder(ctx context.Context, cart domain.Cart, customer domain.Customer) (*domain.Order, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(cart.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}

	order := &domain.Order{
		ID:          uuid.NewString(),
		Customer:    customer,
		DeliveryFee: s.deliveryFee,
		Channel:     domain.ChannelNone,
		CreatedAt:   s.now().UTC(),
	}

	for _, line := range cart.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %d must be positive", domain.ErrInvalidInput, line.ProductID)
		}
		product, err := s.catalog.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if order.ShopID == 0 {
			order.ShopID = product.ShopID
		} else if product.ShopID != order.ShopID {
			return nil, fmt.Errorf("%w: cart contains products from more than one shop", domain.ErrInvalidInput)
		}

		lineTotal := product.Price * float64(line.Quantity)
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
			LineTotal: lineTotal,
		})
		order.Subtotal += lineTotal
	}
	order.Total = order.Subtotal + order.DeliveryFee

	shop, err := s.catalog.GetShopByID(ctx, order.ShopID)
	if err != nil {
		return nil, err
	}
	order.ShopName = shop.Name

	s.notify(ctx, order, shop)

	s.logger.Info().
		Str("order_id", order.ID).
		Int64("shop_id", order.ShopID).
		Int("lines", len(order.Lines)).
		Str("channel", order.Channel).
		Msg("Order placed")

	return order, nil
}

// notify picks the channel: phone gets a chat deep link, otherwise the owner is emailed
func (s *OrderService) notify(ctx context.Context, order *domain.Order, shop domain.Shop) {
	if phone := sanitizePhone(shop.Phone); phone != "" {
		order.Channel = domain.ChannelWhatsApp
		order.RedirectURL = WhatsAppBaseURL + phone + "?text=" + url.QueryEscape(s.FormatSummary(order))
		s.recordNotification(domain.ChannelWhatsApp, nil)
		return
	}

	if s.email == nil {
		return
	}

	owner, err := s.catalog.GetShopOwner(ctx, shop.ID)
	if err != nil || owner.Email == "" {
		s.logger.Warn().Err(err).Int64("shop_id", shop.ID).Msg("No notification channel for shop")
		return
	}

	order.Channel = domain.ChannelEmail
	err = s.email.Notify(ctx, domain.Notification{
		Destination: owner.Email,
		Subject:     "New Order Received - GroSnap",
		Message:     s.FormatEmail(order, owner),
	})
	s.recordNotification(domain.ChannelEmail, err)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("Failed to send order email")
	}
}

// FormatSummary renders the chat message sent to the shopkeeper
func (s *OrderService) FormatSummary(order *domain.Order) string {
	var b strings.Builder
	b.WriteString("Order Summary:\n\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "%s x %d = %s%s\n", line.Name, line.Quantity, s.currency, formatAmount(line.LineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s%s\n", s.currency, formatAmount(order.Total))
	fmt.Fprintf(&b, "\nCustomer Name: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "Customer Phone: %s\n", orDefault(order.Customer.Phone, "Not provided"))
	return b.String()
}

// FormatEmail renders the email body sent to the shopkeeper
func (s *OrderService) FormatEmail(order *domain.Order, owner domain.Shopkeeper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", owner.Name)
	fmt.Fprintf(&b, "Customer: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n\n", orDefault(order.Customer.Phone, "Not provided"))
	b.WriteString("Items:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "- %s x %d = %s%s\n", line.Name, line.Quantity, s.currency, formatAmount(line.LineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s%s\n\n", s.currency, formatAmount(order.Total))
	b.WriteString("Please log in to your dashboard to fulfill the order.\n")
	return b.String()
}

func (s *OrderService) recordNotification(channel string, err error) {
	if s.metrics != nil {
		s.metrics.RecordNotification(channel, err)
	}
}

// sanitizePhone keeps digits only, the form wa.me expects
func sanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatAmount drops trailing zeros: 50 -> "50", 12.5 -> "12.50"
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
