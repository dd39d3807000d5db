package service

import (
	"context"
	"fmt"

	"github.com/sailsizzle/regatta/internal/adapters/repository"
	"github.com/sailsizzle/regatta/internal/adapters/repository/sheets"
	"github.com/sailsizzle/regatta/internal/adapters/repository/sqlite"
	"github.com/sailsizzle/regatta/internal/config"
	"github.com/sailsizzle/regatta/pkg/logger"
)

// OpenStore opens the configured backend wrapped with metrics and logging.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		store = repository.NewMemoryStore()
	case config.BackendSQLite:
		store, err = sqlite.Open(cfg.SQLitePath)
	case config.BackendSheets:
		store, err = sheets.Open(ctx, sheets.Config{
			SpreadsheetID:   cfg.SheetsSpreadsheetID,
			Worksheet:       cfg.SheetsWorksheet,
			CredentialsFile: cfg.SheetsCredentialsFile,
		})
	default:
		return nil, fmt.Errorf("%w: unknown store_backend %q", config.ErrInvalidConfig, cfg.StoreBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	return repository.Instrument(store, log), nil
}
