package types

import (
	"errors"
	"fmt"
)

// OptionCatalog is the full collection of option sets available to a build.
// It is immutable once constructed; share it freely between goroutines.
type OptionCatalog struct {
	sets  map[string]OptionSet
	order []string
}

// ErrDuplicateOptionSet is returned by NewOptionCatalog when two sets share a name.
var ErrDuplicateOptionSet = errors.New("duplicate option set name")

// NewOptionCatalog builds a catalog from sets in the given order. The option
// slices are copied so later changes by the caller do not leak in.
// Structural validation of each set is left to catalog.Validate.
func NewOptionCatalog(sets ...OptionSet) (*OptionCatalog, error) {
	c := &OptionCatalog{
		sets:  make(map[string]OptionSet, len(sets)),
		order: make([]string, 0, len(sets)),
	}
	for _, s := range sets {
		if _, ok := c.sets[s.Name]; ok {
			return nil, fmt.Errorf("option set %q: %w", s.Name, ErrDuplicateOptionSet)
		}
		opts := make([]Option, len(s.Options))
		copy(opts, s.Options)
		c.sets[s.Name] = OptionSet{Name: s.Name, Options: opts}
		c.order = append(c.order, s.Name)
	}
	return c, nil
}

// Lookup returns the option set registered under name.
func (c *OptionCatalog) Lookup(name string) (OptionSet, bool) {
	if c == nil {
		return OptionSet{}, false
	}
	s, ok := c.sets[name]
	return s, ok
}

// Has reports whether name is a catalog key.
func (c *OptionCatalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names returns the catalog keys in load order.
func (c *OptionCatalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of option sets.
func (c *OptionCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
