package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stratum/pkg/types"
)

// ContainerFileName is the SQLite file created inside the data directory.
const ContainerFileName = "stratum.db"

// Compile-time interface check: Store must implement ContainerStore.
var _ types.ContainerStore = (*Store)(nil)

// Store implements the ContainerStore contract on a single SQLite file.
// The store serializes its own access; the in-memory registry above it
// stays lock-free.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewStore creates an unattached store; call Attach with a Config to open
// or create the container file.
func NewStore() *Store {
	return &Store{}
}

// Attach opens the container described by config, creating the data
// directory and the schema when absent. An existing container file reopens
// with its rows intact. Returns ErrAlreadyAttached while attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, ContainerFileName))
	if err != nil {
		return err
	}
	for _, ddl := range allSchemas {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	s.db = db
	s.config = config
	s.attached = true
	return nil
}

// Detach closes the container file. Idempotent; after Detach all other
// operations return ErrStoreDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil // idempotent
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	s.attached = false
	return nil
}

// Finalize flushes buffered writes. Every write in this store commits its
// own transaction, so an attached store has nothing left to flush.
func (s *Store) Finalize() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	return nil
}
