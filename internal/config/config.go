// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends selectable through STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreBadger   = "badger"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	TokenTTL           time.Duration `mapstructure:"TOKEN_TTL"`
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"APP_ENV"`
	StoreBackend       string        `mapstructure:"STORE_BACKEND"`
	DBHost             string        `mapstructure:"DB_HOST"`
	DBPort             string        `mapstructure:"DB_PORT"`
	DBUser             string        `mapstructure:"DB_USER"`
	DBPassword         string        `mapstructure:"DB_PASSWORD"`
	DBName             string        `mapstructure:"DB_NAME"`
	DBSSLMode          string        `mapstructure:"DB_SSLMODE"`
	DBSchemaMode       string        `mapstructure:"DB_SCHEMA_MODE"`
	SQLitePath         string        `mapstructure:"SQLITE_PATH"`
	BadgerPath         string        `mapstructure:"BADGER_PATH"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	AllowedOrigins     string        `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags       string        `mapstructure:"FEATURE_FLAGS"`
	TracingEnabled     bool          `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string        `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string        `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64       `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from .env, config files and
// environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "8375")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("TOKEN_TTL", "1h")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORE_BACKEND", StoreMemory)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "socialhub")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("SQLITE_PATH", "socialhub.db")
	viper.SetDefault("BADGER_PATH", "data/badger")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.StoreBackend = strings.ToLower(strings.TrimSpace(config.StoreBackend))
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))
	config.DBSchemaMode = strings.ToLower(strings.TrimSpace(config.DBSchemaMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	switch c.StoreBackend {
	case StoreMemory, StorePostgres, StoreSQLite, StoreBadger:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.DBSchemaMode {
	case "", "hybrid", "sql", "auto":
	default:
		return fmt.Errorf("unknown DB_SCHEMA_MODE %q", c.DBSchemaMode)
	}
	if c.IsProduction() && c.DBSchemaMode == "auto" {
		return errors.New("DB_SCHEMA_MODE=auto is not allowed in production")
	}
	if c.StoreBackend == StoreSQLite && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required for the sqlite store")
	}
	if c.StoreBackend == StoreBadger && c.BadgerPath == "" {
		return errors.New("BADGER_PATH is required for the badger store")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.StoreBackend == StoreMemory {
			return errors.New("the memory store is not allowed in production")
		}
		if c.StoreBackend == StorePostgres {
			if c.DBPassword == "password" || c.DBPassword == "" {
				return errors.New("a strong DB_PASSWORD is required in production")
			}
			if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
				return errors.New("DB_SSLMODE must not be 'disable' in production")
			}
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
