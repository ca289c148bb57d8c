package catalog

import (
	"sync/atomic"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Holder publishes the current catalog. A reload swaps in a whole new catalog;
// evaluations already in flight keep the one they loaded.
type Holder struct {
	p atomic.Pointer[types.OptionCatalog]
}

// NewHolder returns a Holder publishing cat.
func NewHolder(cat *types.OptionCatalog) *Holder {
	h := &Holder{}
	h.p.Store(cat)
	return h
}

// Load returns the current catalog, or nil if none has been stored.
func (h *Holder) Load() *types.OptionCatalog {
	return h.p.Load()
}

// Reload loads the catalog at path and publishes it. On error the current
// catalog is left in place.
func (h *Holder) Reload(path string) (*types.OptionCatalog, error) {
	cat, err := Load(path)
	if err != nil {
		return nil, err
	}
	h.p.Store(cat)
	return cat, nil
}
