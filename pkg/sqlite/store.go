// Package sqlite provides the public API for the SQLite container store.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/stratum/internal/sqlite"
	"github.com/mesh-intelligence/stratum/pkg/types"
)

// NewStore creates a new SQLite container store. The store is not attached;
// call Attach with a Config to open or create the container file.
//
// Example:
//
//	store := sqlite.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".stratum-db",
//	})
//	defer store.Detach()
func NewStore() types.ContainerStore {
	return sqlite.NewStore()
}
