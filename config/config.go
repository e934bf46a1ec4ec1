package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pricio/backend/internal/domain"
)

const envPrefix = "PRICIO"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
	Stores    []domain.Store
	Alerts    AlertsConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// EnableImport exposes catalog upload over HTTP
	EnableImport bool `mapstructure:"enable_import"`
}

// DatabaseConfig selects the catalog database
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite3" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory"
	CatalogTTL    time.Duration `mapstructure:"catalog_ttl"`
	AttributesTTL time.Duration `mapstructure:"attributes_ttl"`
}

// RateLimitConfig holds rate limiting configuration, in requests per minute
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`
	Webhook int `mapstructure:"webhook"`
}

// MatchingConfig holds matching thresholds and result sizes
type MatchingConfig struct {
	MinSimilarityScore int  `mapstructure:"min_similarity_score"`
	ExactMatchScore    int  `mapstructure:"exact_match_score"`
	CrossStoreMinScore int  `mapstructure:"cross_store_min_score"`
	SearchLimit        int  `mapstructure:"search_limit"`
	SimilarLimit       int  `mapstructure:"similar_limit"`
	CrossStoreLimit    int  `mapstructure:"cross_store_limit"`
	Debug              bool `mapstructure:"debug"`
}

// AlertsConfig holds price-drop alert configuration
type AlertsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Schedule   string `mapstructure:"schedule"`
	WebhookURL string `mapstructure:"webhook_url"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricio/")

	// PRICIO_SERVER_PORT overrides server.port
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Stores cannot be decoded from a plain env string, so PRICIO_STORES is parsed here
	if raw, ok := os.LookupEnv(envPrefix + "_STORES"); ok {
		stores, err := parseStores(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s_STORES: %w", envPrefix, err)
		}
		v.Set("stores", stores)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.enable_import", false)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "pricio.db")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.catalog_ttl", "5m")
	v.SetDefault("cache.attributes_ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.webhook", 30)

	// Matching defaults
	v.SetDefault("matching.min_similarity_score", 20)
	v.SetDefault("matching.exact_match_score", 70)
	v.SetDefault("matching.cross_store_min_score", 60)
	v.SetDefault("matching.search_limit", 500)
	v.SetDefault("matching.similar_limit", 6)
	v.SetDefault("matching.cross_store_limit", 5)
	v.SetDefault("matching.debug", false)

	v.SetDefault("stores", []map[string]interface{}{
		{"id": "5ka", "name": "Пятёрочка"},
		{"id": "magnit", "name": "Магнит"},
	})

	// Alert defaults
	v.SetDefault("alerts.enabled", false)
	v.SetDefault("alerts.schedule", "0 0 * * * *")
	v.SetDefault("alerts.webhook_url", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// parseStores parses "id:Name,id:Name"
func parseStores(raw string) ([]map[string]interface{}, error) {
	var stores []map[string]interface{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, name, ok := strings.Cut(part, ":")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("store %q must look like id:name", part)
		}
		stores = append(stores, map[string]interface{}{"id": id, "name": name})
	}
	return stores, nil
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Driver != "sqlite3" && config.Database.Driver != "postgres" {
		return fmt.Errorf("database driver must be 'sqlite3' or 'postgres', got: %s", config.Database.Driver)
	}

	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set %s_DATABASE_DSN)", envPrefix)
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	thresholds := map[string]int{
		"min_similarity_score":  config.Matching.MinSimilarityScore,
		"exact_match_score":     config.Matching.ExactMatchScore,
		"cross_store_min_score": config.Matching.CrossStoreMinScore,
	}
	// 0 selects the built-in default downstream, so thresholds start at 1
	for name, value := range thresholds {
		if value < 1 || value > 100 {
			return fmt.Errorf("matching.%s must be between 1 and 100, got: %d", name, value)
		}
	}

	if len(config.Stores) == 0 {
		return fmt.Errorf("at least one store is required")
	}
	seen := make(map[string]bool, len(config.Stores))
	for _, store := range config.Stores {
		if store.ID == "" {
			return fmt.Errorf("store id is required")
		}
		if seen[store.ID] {
			return fmt.Errorf("duplicate store id: %s", store.ID)
		}
		seen[store.ID] = true
	}

	if config.Alerts.Enabled && config.Alerts.Schedule == "" {
		return fmt.Errorf("alerts schedule is required when alerts are enabled")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
