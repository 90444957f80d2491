// Package backend opens the storage implementation named by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/mmynk/coverwise/internal/config"
	"github.com/mmynk/coverwise/internal/storage"
	"github.com/mmynk/coverwise/internal/storage/postgres"
	"github.com/mmynk/coverwise/internal/storage/sqlite"
)

// Open connects to the configured driver and applies its migrations.
func Open(ctx context.Context, cfg config.Store) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
