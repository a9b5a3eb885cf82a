package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
	StorageRedis    StorageDriver = "redis"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Invoicer"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Storage struct {
		Driver     StorageDriver `envconfig:"STORAGE_DRIVER" default:"sqlite"`
		SQLitePath string        `envconfig:"SQLITE_PATH" default:"./data/invoicer.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"invoicer"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
		Prefix   string `envconfig:"REDIS_PREFIX" default:"invoicer:"`
	}

	Invoice struct {
		Currency       string `envconfig:"INVOICE_CURRENCY" default:"USD"`
		DueDays        int    `envconfig:"INVOICE_DUE_DAYS" default:"30"`
		DiscountPolicy string `envconfig:"INVOICE_DISCOUNT_POLICY" default:"allow"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// InvoiceSettings builds the defaults applied to new records.
func (c *Config) InvoiceSettings() (invoice.Settings, error) {
	policy, err := invoice.ParseDiscountPolicy(c.Invoice.DiscountPolicy)
	if err != nil {
		return invoice.Settings{}, err
	}

	return invoice.Settings{
		Currency: strings.ToUpper(c.Invoice.Currency),
		DueDays:  c.Invoice.DueDays,
		Discount: policy,
	}, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Storage.Driver {
	case StorageMemory, StorageSQLite, StoragePostgres, StorageRedis:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}
