// Package factory builds the concrete store from configuration.
package factory

import (
	"fmt"

	"github.com/daylog/daylog-backend/internal/config"
	storepkg "github.com/daylog/daylog-backend/internal/store"
	storepg "github.com/daylog/daylog-backend/internal/store/postgres"
	storesqlite "github.com/daylog/daylog-backend/internal/store/sqlite"
)

// NewStore returns the store selected by cfg.DBDriver. The sqlite driver
// creates its schema on open; postgres expects the migrations to have run.
func NewStore(cfg *config.Config) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return storesqlite.New(cfg.SQLitePath)
	case "postgres":
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return storepg.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
