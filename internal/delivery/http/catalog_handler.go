package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grosnap/backend/internal/domain"
)

// ListShops returns every shop in the catalog
func (h *Handler) ListShops(c *gin.Context) {
	shops, err := h.services.Catalog.ListShops(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if shops == nil {
		shops = []domain.Shop{}
	}
	c.JSON(http.StatusOK, ShopsResponse{Shops: shops})
}

// GetShop returns one shop with its products grouped by category
func (h *Handler) GetShop(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	detail, err := h.services.Catalog.GetShop(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ShopDetailResponse{
		Shop:               detail.Shop,
		Categories:         detail.Categories,
		ProductsByCategory: detail.ProductsByCategory,
	})
}

// SearchProducts finds products by name substring
func (h *Handler) SearchProducts(c *gin.Context) {
	q := c.Query("q")
	results, err := h.services.Catalog.SearchProducts(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if results == nil {
		results = []domain.Product{}
	}
	c.JSON(http.StatusOK, SearchResponse{Query: q, Results: results})
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, raw)
	}
	return id, nil
}
