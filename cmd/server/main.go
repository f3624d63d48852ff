package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/grosnap/backend/config"
	httpDelivery "github.com/grosnap/backend/internal/delivery/http"
	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/infrastructure/cache"
	"github.com/grosnap/backend/internal/infrastructure/catalog"
	"github.com/grosnap/backend/internal/infrastructure/notify"
	"github.com/grosnap/backend/internal/infrastructure/ocr"
	"github.com/grosnap/backend/internal/infrastructure/overpass"
	"github.com/grosnap/backend/internal/metrics"
	"github.com/grosnap/backend/internal/telemetry"
	"github.com/grosnap/backend/internal/usecase"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("catalog", cfg.Catalog.Driver).
		Msg("Starting GroSnap backend")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Server.Environment,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	// Initialize infrastructure dependencies
	store, err := catalog.Open(ctx, catalog.Options{
		Driver:   cfg.Catalog.Driver,
		DSN:      cfg.Catalog.DSN,
		SeedFile: cfg.Catalog.SeedFile,
		MaxConns: cfg.Catalog.MaxConns,
		MinConns: cfg.Catalog.MinConns,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer store.Close()

	poiCache := cache.NewMemoryCache[[]domain.GeoCandidate](time.Minute)
	defer poiCache.Close()

	overpassClient := overpass.NewClient(overpass.Config{
		URL:               cfg.Overpass.URL,
		Timeout:           cfg.Overpass.Timeout,
		RequestsPerSecond: cfg.RateLimit.UpstreamRPS,
	}, logger)

	var ocrProvider domain.OCRProvider
	if cfg.OCR.URL != "" {
		ocrProvider = ocr.NewClient(ocr.Config{URL: cfg.OCR.URL, Timeout: cfg.OCR.Timeout}, logger)
	} else {
		logger.Warn().Msg("OCR service URL not configured, /upload will fail")
	}

	var notifier domain.Notifier
	if cfg.SMTP.Host != "" {
		notifier = notify.NewEmailNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	recorder := metrics.NewRecorder()

	// Initialize usecase layer
	services := httpDelivery.Services{
		Finder: usecase.NewFinderService(store, recorder, logger, usecase.FinderServiceConfig{
			Separator:        cfg.Matching.SeparatorString(),
			FetchConcurrency: cfg.Matching.FetchConcurrency,
		}),
		Nearby: usecase.NewNearbyService(store, overpassClient, poiCache, recorder, logger, usecase.NearbyServiceConfig{
			DefaultRadiusKm: cfg.Proximity.DefaultRadiusKm,
			POICacheTTL:     cfg.Overpass.CacheTTL,
		}),
		OCR:        usecase.NewOCRService(ocrProvider, recorder, logger),
		Catalog:    usecase.NewCatalogService(store),
		Shopkeeper: usecase.NewShopkeeperService(store),
		Orders: usecase.NewOrderService(store, notifier, recorder, logger, usecase.OrderServiceConfig{
			DeliveryFee:    cfg.Orders.DeliveryFee,
			CurrencySymbol: cfg.Orders.Currency,
		}),
	}

	limiter := httpDelivery.NewIPRateLimiter(httpDelivery.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.PerIP,
		BurstSize:         cfg.RateLimit.Burst,
	})
	stopSweeper := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup(10 * time.Minute)
			case <-stopSweeper:
				return
			}
		}
	}()

	handler := httpDelivery.NewHandler(services, version, logger)
	router := httpDelivery.SetupRouter(cfg, handler, limiter, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	close(stopSweeper)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush traces")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "grosnap-backend").Logger()
	return &logger
}
