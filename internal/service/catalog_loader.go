package service

import (
	"context"
	"fmt"

	"hotelavail/internal/catalog"
	"hotelavail/internal/config"
	"hotelavail/internal/database"
	"hotelavail/internal/metrics"

	"github.com/rs/zerolog"
)

// LoadCatalog loads the catalog from the configured source. Any failure is
// final for the process: callers must not run checks without a catalog.
func LoadCatalog(ctx context.Context, cfg config.DataConfig, logger *zerolog.Logger) (*catalog.Catalog, error) {
	var source catalog.Source
	switch cfg.Source {
	case config.DataSourceSQLite:
		db, err := database.NewDB(cfg.DatabasePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open catalog database: %w", err)
		}
		defer db.Close()
		source = db
	case config.DataSourceJSON, "":
		source = catalog.NewJSONSource(cfg.HotelsPath, cfg.BookingsPath, logger)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}

	cat, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	stats := cat.Stats()
	metrics.SetCatalog(stats.Hotels, stats.Bookings)
	return cat, nil
}
