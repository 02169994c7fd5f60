// Package storage resolves which Store backend the process runs against.
package storage

import (
	"context"
	"errors"
	"fmt"

	"missioncontrol/internal/adapters/memory"
	pg "missioncontrol/internal/adapters/postgres"
	"missioncontrol/internal/ports"
)

// Backend is decided once at startup and never re-checked per call.
type Backend int

const (
	BackendMemory Backend = iota
	BackendPostgres
)

func (b Backend) String() string {
	switch b {
	case BackendPostgres:
		return "postgres"
	default:
		return "memory"
	}
}

// ErrPersistentStoreRequired is returned by operations that need Postgres.
var ErrPersistentStoreRequired = errors.New("persistent store not configured: set DATABASE_URL")

// Select picks Postgres when a database URL is configured.
func Select(databaseURL string) Backend {
	if databaseURL != "" {
		return BackendPostgres
	}
	return BackendMemory
}

// Open connects the chosen backend. Postgres is migrated when migrate is set.
func Open(ctx context.Context, backend Backend, databaseURL string, migrate bool) (ports.Store, error) {
	switch backend {
	case BackendPostgres:
		db, err := pg.Connect(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if migrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return nil, err
			}
		}
		return db, nil
	default:
		return memory.New(), nil
	}
}
