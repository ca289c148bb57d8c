// Package sqlite provides the public factory for the SQLite report store.
package sqlite

import (
	"github.com/mesh-intelligence/swatch/internal/sqlite"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// NewBackend creates a new SQLite report store.
// The store is not attached; call Attach with a Config to open it.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{DataDir: ".swatch-db"})
//	defer store.Detach()
func NewBackend() types.ReportStore {
	return sqlite.NewBackend()
}
