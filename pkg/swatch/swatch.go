// Package swatch is the public entry point to the preference engine: load an
// option catalog, declare preferences, and get back the defaults a reader
// starts with, or every error the declaration can produce.
package swatch

import (
	"context"

	"github.com/mesh-intelligence/swatch/internal/catalog"
	"github.com/mesh-intelligence/swatch/internal/frontmatter"
	"github.com/mesh-intelligence/swatch/internal/prefs"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Version is the release of the swatch module.
const Version = "0.1.0"

// Engine errors. Use errors.Is against the error returned by Evaluate; a
// single evaluation may match several.
var (
	ErrUnknownPreferenceReference = prefs.ErrUnknownPreferenceReference
	ErrDuplicatePreference        = prefs.ErrDuplicatePreference
	ErrCyclicPreferenceDependency = prefs.ErrCyclicPreferenceDependency
	ErrMissingOptionSet           = prefs.ErrMissingOptionSet
	ErrUnboundPlaceholder         = prefs.ErrUnboundPlaceholder
	ErrNoDefaultInOptionSet       = prefs.ErrNoDefaultInOptionSet
	ErrAmbiguousBinding           = prefs.ErrAmbiguousBinding
)

// Evaluation is the outcome of a successful Evaluate.
type Evaluation struct {
	Order     []string            // preference ids, dependencies first
	Defaults  map[string]string   // preference id -> default option id
	Reachable map[string][]string // preference id -> option-set keys it can resolve to
}

// LoadCatalog reads an option catalog from a YAML file.
func LoadCatalog(path string) (*types.OptionCatalog, error) {
	return catalog.Load(path)
}

// ParseCatalog parses an option catalog from YAML.
func ParseCatalog(data []byte) (*types.OptionCatalog, error) {
	return catalog.Parse(data)
}

// ParseDeclaration reads the preferences declared in a content file's
// frontmatter.
func ParseDeclaration(path string, data []byte) (types.PreferenceDeclaration, error) {
	doc, err := frontmatter.Parse(path, data)
	if err != nil {
		return types.PreferenceDeclaration{}, err
	}
	return doc.Declaration, nil
}

// Evaluate validates decl against cat and derives its defaults.
func Evaluate(ctx context.Context, cat *types.OptionCatalog, decl types.PreferenceDeclaration) (*Evaluation, error) {
	res, err := prefs.NewEngine(cat).Evaluate(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		Order:     res.Graph.Order(),
		Defaults:  res.Defaults,
		Reachable: res.Reachable,
	}, nil
}

// Resolve substitutes bindings into a templated options source. Placeholder
// names match preference ids case-insensitively and substituted values are
// lower-cased.
func Resolve(template string, bindings types.Binding) (string, error) {
	return prefs.Resolve(template, bindings)
}
