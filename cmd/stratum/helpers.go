// Shared helpers for the stratum CLI commands.
package main

import (
	"fmt"

	"github.com/mesh-intelligence/stratum/pkg/sqlite"
	"github.com/mesh-intelligence/stratum/pkg/types"
	"github.com/mesh-intelligence/stratum/pkg/workspace"
)

// attachStore opens the container store in the resolved data directory.
// Callers must Detach the returned store.
func attachStore() (types.ContainerStore, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.NewStore()
	if err := store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// loadWorkspace attaches the store and rebuilds the workspace registry from
// it. Callers must Detach the returned store.
func loadWorkspace() (*workspace.Workspace, types.ContainerStore, error) {
	store, err := attachStore()
	if err != nil {
		return nil, nil, err
	}

	ws, err := workspace.Load(store)
	if err != nil {
		store.Detach()
		return nil, nil, fmt.Errorf("load workspace: %w", err)
	}
	return ws, store, nil
}
