package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/grosnap/backend/config"
	"github.com/grosnap/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router. limiter may be nil to
// disable per-IP rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *IPRateLimiter, logger *zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	router := gin.New()
	router.MaxMultipartMemory = MaxUploadBytes

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware(metrics.NewRecorder()))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := []gin.HandlerFunc{}
	if limiter != nil {
		limited = append(limited, RateLimitMiddleware(limiter))
	}

	// Shopping-list endpoints kept at the root for the existing front end
	root := router.Group("/", limited...)
	{
		root.POST("/find-items", handler.FindItems)
		root.POST("/upload", handler.Upload)
	}

	api := router.Group("/api", limited...)
	{
		api.POST("/nearby", handler.Nearby)
		api.POST("/nearby_shops", handler.Nearby)
		api.POST("/overpass", handler.Overpass)

		api.GET("/shops", handler.ListShops)
		api.GET("/shops/:id", handler.GetShop)
		api.GET("/products/search", handler.SearchProducts)

		api.POST("/orders", handler.PlaceOrder)

		shopkeeper := api.Group("/shopkeeper")
		{
			shopkeeper.POST("/products", handler.AddProduct)
			shopkeeper.PUT("/products/:id", handler.UpdateProduct)
			shopkeeper.DELETE("/products/:id", handler.DeleteProduct)
		}
	}

	return router
}
