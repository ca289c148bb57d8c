package prefs

import (
	"context"

	"github.com/mesh-intelligence/swatch/internal/ctxlog"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Result is the outcome of a successful evaluation.
type Result struct {
	Graph    *Graph
	Defaults map[string]string // preference id -> default option id

	// Reachable lists, per preference, every option-set key a reader's
	// selections can resolve its source to, in enumeration order.
	Reachable map[string][]string

	// Combinations is the number of distinct bindings checked for templates.
	Combinations int
}

// Engine evaluates preference declarations against one option catalog.
// An Engine is safe for concurrent use.
type Engine struct {
	catalog *types.OptionCatalog
}

// NewEngine returns an Engine bound to cat. The catalog must not be mutated
// while the engine is in use.
func NewEngine(cat *types.OptionCatalog) *Engine {
	return &Engine{catalog: cat}
}

// Catalog returns the catalog the engine evaluates against.
func (e *Engine) Catalog() *types.OptionCatalog {
	return e.catalog
}

// Evaluate builds the dependency graph, validates every reachable combination
// and derives defaults. Either the full Result is returned or an error; the
// error is an ErrorList for declaration and validation problems, and a single
// *Error for cycles and internal failures.
func (e *Engine) Evaluate(ctx context.Context, decl types.PreferenceDeclaration) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("file", decl.Path)

	g, err := BuildGraph(decl)
	if err != nil {
		logger.Debug("Evaluate: graph construction failed.", "error", err)
		return nil, err
	}
	logger.Debug("Evaluate: graph built.", "order", g.order)

	a := analyze(g, e.catalog)
	if len(a.errs) > 0 {
		logger.Debug("Evaluate: validation failed.", "errors", len(a.errs), "combinations", a.combinations)
		return nil, a.errs
	}
	logger.Debug("Evaluate: validation passed.", "combinations", a.combinations)

	defaults, err := DeriveDefaults(g, e.catalog)
	if err != nil {
		logger.Error("Evaluate: default derivation failed after validation.", "error", err)
		return nil, err
	}

	return &Result{
		Graph:        g,
		Defaults:     defaults,
		Reachable:    a.reachable,
		Combinations: a.combinations,
	}, nil
}
