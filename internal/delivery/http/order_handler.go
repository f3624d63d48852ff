package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grosnap/backend/internal/domain"
)

// PlaceOrder checks out a single-shop cart
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid order payload"})
		return
	}

	order, err := h.services.Orders.PlaceOrder(c.Request.Context(), domain.Cart{Lines: req.Items}, req.Customer)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, OrderResponse{Order: order})
}

// AddProduct adds a product to the acting shopkeeper's shop
func (h *Handler) AddProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid product payload"})
		return
	}

	product, err := h.services.Shopkeeper.AddProduct(c.Request.Context(), actorID(c), req.toProduct())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ProductResponse{Product: product})
}

// UpdateProduct edits a product the acting shopkeeper owns
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid product payload"})
		return
	}

	product, err := h.services.Shopkeeper.UpdateProduct(c.Request.Context(), actorID(c), id, req.toProduct())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProductResponse{Product: product})
}

// DeleteProduct removes a product the acting shopkeeper owns
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.services.Shopkeeper.DeleteProduct(c.Request.Context(), actorID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// actorID reads the shopkeeper header. A missing or malformed value yields
// 0, which the shopkeeper service rejects as unauthorized.
func actorID(c *gin.Context) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(c.GetHeader(ShopkeeperHeader)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

