// Package config loads the inventory settings from environment variables.
// Every binary calls Load once at startup and fails fast on a bad setting.
package config

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Rate     RateLimitConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including running imports (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies lists proxy CIDRs whose X-Real-IP/X-Forwarded-For are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// CORSOrigins enables CORS for the listed origins; empty disables it
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
}

// DatabaseConfig selects and tunes the record store.
type DatabaseConfig struct {
	// Driver is sqlite, postgres or memory (default: sqlite)
	Driver string `env:"DB_DRIVER" default:"sqlite"`

	// Path is the SQLite file (default: livros.db)
	Path string `env:"DB_PATH" default:"livros.db"`

	// URL is the PostgreSQL connection string, required when Driver is postgres.
	// DATABASE_URL and DB_URL are both accepted.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// ConnectTimeout bounds opening the store at startup (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// ImportConfig holds spreadsheet import settings.
type ImportConfig struct {
	// MaxFileSize is the largest accepted upload in bytes (default: 32MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"33554432"`

	// MaxConcurrent is the number of imports that may run at once (default: 3)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"3"`

	// MaxWaitTime is how long a request waits for an import slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Sheet is the XLSX sheet to read; empty means the first sheet.
	Sheet string `env:"IMPORT_XLSX_SHEET"`

	// Extra column labels per field, comma-separated.
	TitleLabels        []string `env:"IMPORT_TITLE_LABELS"`
	CopyCountLabels    []string `env:"IMPORT_COPY_COUNT_LABELS"`
	ValueLabels        []string `env:"IMPORT_VALUE_LABELS"`
	MissingCountLabels []string `env:"IMPORT_MISSING_COUNT_LABELS"`
	TotalCountLabels   []string `env:"IMPORT_TOTAL_COUNT_LABELS"`
	AveragePriceLabels []string `env:"IMPORT_AVERAGE_PRICE_LABELS"`
}

// Labels returns the default label set extended with the configured extras.
func (c ImportConfig) Labels() inventory.LabelSet {
	return inventory.DefaultLabels().
		With(inventory.ColumnTitle, c.TitleLabels...).
		With(inventory.ColumnCopyCount, c.CopyCountLabels...).
		With(inventory.ColumnValue, c.ValueLabels...).
		With(inventory.ColumnMissingCount, c.MissingCountLabels...).
		With(inventory.ColumnTotalCount, c.TotalCountLabels...).
		With(inventory.ColumnAveragePrice, c.AveragePriceLabels...)
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// Burst is how many requests may arrive at once (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20"`

	// ImportPerMinute is the rate for the import endpoint (default: 10)
	ImportPerMinute int `env:"RATE_LIMIT_IMPORT" default:"10"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File receives log output while the terminal front-end owns the screen
	// (default: bookinv.log)
	File string `env:"LOG_FILE" default:"bookinv.log"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
