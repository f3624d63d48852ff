package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Catalog   CatalogConfig
	Matching  MatchingConfig
	Proximity ProximityConfig
	OCR       OCRConfig
	Overpass  OverpassConfig
	Orders    OrdersConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds zerolog settings
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"` // "json" or "console"
	NoColor bool   `mapstructure:"no_color"`
}

// CatalogConfig selects and tunes the catalog store
type CatalogConfig struct {
	Driver   string `mapstructure:"driver"` // "memory", "sqlite" or "postgres"
	DSN      string `mapstructure:"dsn"`
	SeedFile string `mapstructure:"seed_file"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

// MatchingConfig holds inventory matching settings
type MatchingConfig struct {
	Separator        string `mapstructure:"separator"` // "space" or "underscore"
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
}

// ProximityConfig holds nearby search settings
type ProximityConfig struct {
	DefaultRadiusKm float64 `mapstructure:"default_radius_km"`
}

// OCRConfig holds the text recognition service settings
type OCRConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OverpassConfig holds the map POI proxy settings
type OverpassConfig struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// OrdersConfig holds checkout settings
type OrdersConfig struct {
	DeliveryFee float64 `mapstructure:"delivery_fee"`
	Currency    string  `mapstructure:"currency"`
}

// SMTPConfig holds outgoing mail settings. Email is disabled when Host is empty.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP       float64 `mapstructure:"per_ip"`
	Burst       int     `mapstructure:"burst"`
	UpstreamRPS float64 `mapstructure:"upstream_rps"`
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // "otlp" or "stdout"
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	ServiceName string  `mapstructure:"service_name"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grosnap/")

	// Environment variable settings
	v.SetEnvPrefix("GROSNAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a default
// so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	// Catalog defaults
	v.SetDefault("catalog.driver", "memory")
	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.seed_file", "")
	v.SetDefault("catalog.max_conns", 10)
	v.SetDefault("catalog.min_conns", 2)

	// Matching defaults
	v.SetDefault("matching.separator", "space")
	v.SetDefault("matching.fetch_concurrency", 4)

	// Proximity defaults
	v.SetDefault("proximity.default_radius_km", 5.0)

	// OCR defaults
	v.SetDefault("ocr.url", "")
	v.SetDefault("ocr.timeout", "60s")

	// Overpass defaults
	v.SetDefault("overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.timeout", "30s")
	v.SetDefault("overpass.cache_ttl", "15m")

	// Order defaults
	v.SetDefault("orders.delivery_fee", 25.0)
	v.SetDefault("orders.currency", "₹")

	// SMTP defaults
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "orders@grosnap.local")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 10.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.upstream_rps", 0.5)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "otlp")
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.service_name", "grosnap-backend")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Driver {
	case "memory":
	case "sqlite", "postgres":
		if config.Catalog.DSN == "" {
			return fmt.Errorf("catalog DSN is required for driver %q (set GROSNAP_CATALOG_DSN)", config.Catalog.Driver)
		}
	default:
		return fmt.Errorf("catalog driver must be 'memory', 'sqlite' or 'postgres', got: %s", config.Catalog.Driver)
	}

	if config.Matching.Separator != "space" && config.Matching.Separator != "underscore" {
		return fmt.Errorf("matching separator must be 'space' or 'underscore', got: %s", config.Matching.Separator)
	}

	if config.Proximity.DefaultRadiusKm <= 0 {
		return fmt.Errorf("proximity default radius must be positive, got: %v", config.Proximity.DefaultRadiusKm)
	}

	if config.Orders.DeliveryFee < 0 {
		return fmt.Errorf("delivery fee must not be negative, got: %v", config.Orders.DeliveryFee)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	if config.Telemetry.Enabled && config.Telemetry.Exporter != "otlp" && config.Telemetry.Exporter != "stdout" {
		return fmt.Errorf("telemetry exporter must be 'otlp' or 'stdout', got: %s", config.Telemetry.Exporter)
	}

	if config.SMTP.Host != "" && config.SMTP.From == "" {
		return fmt.Errorf("SMTP from address is required when SMTP host is set")
	}

	return nil
}

// SeparatorString returns the character inserted between normalized words
func (m MatchingConfig) SeparatorString() string {
	if m.Separator == "underscore" {
		return "_"
	}
	return " "
}

// loadEnvFile copies KEY=VALUE pairs from ./.env into the environment.
// Variables that are already set win. A missing file is not an error.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
