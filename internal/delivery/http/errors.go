package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grosnap/backend/internal/domain"
)

const genericErrorMessage = "Internal server error"

// statusFor maps a service error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Server-side failures are logged with
// their detail and the client only sees a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		c.JSON(status, ErrorResponse{Error: genericErrorMessage})
		return
	}
	c.JSON(status, ErrorResponse{Error: publicMessage(err)})
}

// publicMessage returns the client-facing text for a 4xx error
func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Not allowed to modify this shop"
	default:
		return err.Error()
	}
}
