// Package store contains the walk.Store backends: SQLite, Postgres and memory.
package store

import (
	"context"
	"fmt"

	"github.com/i474232898/walkd/internal/walk"
)

// Supported values for the STORE_DRIVER setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Backend is a walk.Store whose schema can be created explicitly.
type Backend interface {
	walk.Store
	Migrate(ctx context.Context) error
}

// Open returns the backend for driver, connected to dsn.
func Open(ctx context.Context, driver, dsn string) (Backend, error) {
	switch driver {
	case DriverSQLite:
		s, err := NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
