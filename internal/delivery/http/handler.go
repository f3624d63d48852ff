package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/usecase"
)

// ServiceName is reported by the health check
const ServiceName = "grosnap-backend"

// MaxUploadBytes caps the size of a shopping-list photo
const MaxUploadBytes = 10 << 20

// ShopkeeperHeader carries the id of the signed-in shopkeeper
const ShopkeeperHeader = "X-Shopkeeper-ID"

// Services bundles the use cases the handlers call into
type Services struct {
	Finder     *usecase.FinderService
	Nearby     *usecase.NearbyService
	OCR        *usecase.OCRService
	Catalog    *usecase.CatalogService
	Shopkeeper *usecase.ShopkeeperService
	Orders     *usecase.OrderService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services Services
	version  string
	logger   *zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, version string, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if version == "" {
		version = "dev"
	}
	return &Handler{services: services, version: version, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: h.version,
	})
}

// Nearby returns catalog shops around the posted coordinates
func (h *Handler) Nearby(c *gin.Context) {
	var req NearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validCoordinate(req.Lat, req.Lng) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid coordinates"})
		return
	}

	user := &domain.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}
	results, err := h.services.Nearby.NearbyShops(c.Request.Context(), user, req.RadiusKm)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid coordinates"})
			return
		}
		h.respondError(c, err)
		return
	}

	shops := make([]NearbyShop, 0, len(results))
	for _, r := range results {
		// shop candidates always carry the numeric catalog id
		id, _ := strconv.ParseInt(r.Candidate.ID, 10, 64)
		shops = append(shops, NearbyShop{
			ID:         id,
			Name:       r.Candidate.Name,
			Address:    r.Candidate.Address,
			Latitude:   r.Candidate.Coordinate.Latitude,
			Longitude:  r.Candidate.Coordinate.Longitude,
			DistanceKm: r.DistanceKm,
		})
	}

	c.JSON(http.StatusOK, NearbyResponse{Shops: shops})
}

// Overpass proxies an Overpass QL query and ranks the places it returns
func (h *Handler) Overpass(c *gin.Context) {
	var req OverpassRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Query) == "" || req.UserLat == nil || req.UserLon == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required parameters: query, user_lat, user_lon"})
		return
	}

	user := &domain.Coordinate{Latitude: *req.UserLat, Longitude: *req.UserLon}
	results, err := h.services.Nearby.NearbyPOIs(c.Request.Context(), req.Query, user, req.RadiusKm)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamFailure) {
			h.logger.Error().Err(err).Msg("Overpass lookup failed")
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Overpass API error"})
			return
		}
		h.respondError(c, err)
		return
	}

	elements := make([]OverpassElement, 0, len(results))
	for _, r := range results {
		elements = append(elements, OverpassElement{
			ID:       r.Candidate.ID,
			Name:     r.Candidate.Name,
			Address:  r.Candidate.Address,
			Lat:      r.Candidate.Coordinate.Latitude,
			Lon:      r.Candidate.Coordinate.Longitude,
			Distance: r.DistanceKm,
		})
	}

	c.JSON(http.StatusOK, OverpassResponse{Elements: elements})
}

// FindItems matches a free-text shopping list against every shop
func (h *Handler) FindItems(c *gin.Context) {
	var req FindItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No text provided"})
		return
	}

	result, err := h.services.Finder.FindItems(c.Request.Context(), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	reports := result.Reports
	if reports == nil {
		reports = []domain.MatchReport{}
	}

	c.JSON(http.StatusOK, FindItemsResponse{
		Message:      result.Summary.Message,
		TotalFound:   result.Summary.TotalFound,
		TotalItems:   result.Summary.TotalItems,
		StoreResults: reports,
	})
}

// Upload runs text recognition on a shopping-list photo
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file uploaded"})
		return
	}
	if header.Filename == "" || header.Size == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No selected file"})
		return
	}
	if header.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes))
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.services.OCR.ExtractItems(c.Request.Context(), image)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []string{}
	}

	c.JSON(http.StatusOK, UploadResponse{
		Message: "Text extracted successfully!",
		Text:    result.Text,
		Items:   items,
	})
}

// validCoordinate reports whether both parts are present and within the
// latitude/longitude ranges
func validCoordinate(lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180
}
