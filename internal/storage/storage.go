// Package storage opens the record store selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/bookinv/internal/config"
	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/storage/memory"
	"github.com/JonMunkholm/bookinv/internal/storage/postgres"
	"github.com/JonMunkholm/bookinv/internal/storage/sqlite"
)

// Backend is a Store that holds resources until closed.
type Backend interface {
	inventory.Store
	Close() error
}

// Open connects to the configured backend. Connection failures wrap
// inventory.ErrStoreUnavailable.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Backend, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	switch strings.ToLower(cfg.Driver) {
	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on exit")
		return memory.New(), nil

	case config.DriverPostgres:
		s, err := postgres.Open(ctx, postgres.PoolConfig{
			URL:             cfg.URL,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("connected to database", "driver", config.DriverPostgres)
		return s, nil

	case config.DriverSQLite, "":
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("opened database", "driver", config.DriverSQLite, "path", cfg.Path)
		return s, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
