// Package types defines the data model shared by the swatch build: options,
// option sets, the option catalog, preference declarations, bindings, the
// build Config, and the standard sentinel errors.
//
// Values in this package are plain data. Resolution, validation and default
// derivation live in internal/prefs; loading lives in internal/catalog and
// internal/frontmatter.
package types
