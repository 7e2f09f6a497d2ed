package database

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/store"
	"github.com/association-site-api/internal/store/memstore"
	"github.com/association-site-api/internal/store/sqlstore"
)

// NewStore returns the Store Adapter for the configured driver. db may be nil
// for the memory driver.
func NewStore(cfg *config.DatabaseConfig, db *DB, log zerolog.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return memstore.New(), nil
	case config.DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres store requires a database connection")
		}
		return sqlstore.New(db.DB, sqlstore.DialectPostgres, log,
			sqlstore.WithListener(cfg.GetDSN(), cfg.NotifyChannel))
	case config.DriverSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite store requires a database connection")
		}
		return sqlstore.New(db.DB, sqlstore.DialectSQLite, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
