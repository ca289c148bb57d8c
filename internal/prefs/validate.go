package prefs

import (
	"strings"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Validate proves that every selection a reader can reach resolves each
// preference's options source to a key present in cat. It returns every
// violation found; an empty list means the declaration is valid.
//
// A literal source is checked once. A templated source is checked for every
// reachable assignment of the preferences it depends on, transitively: each
// ancestor contributes the options of the set its own source resolves to under
// the assignment so far, in catalog order. Assignments that differ only in
// ancestors the template does not reference are checked once. Combinations
// blocked by an ancestor's own missing set are not re-reported here, since
// that ancestor already carries the error.
func Validate(g *Graph, cat *types.OptionCatalog) ErrorList {
	a := analyze(g, cat)
	return a.errs
}

// analysis is the outcome of one full walk of a graph against a catalog.
type analysis struct {
	errs         ErrorList
	reachable    map[string][]string // preference id -> distinct option-set keys it can resolve to
	combinations int                 // bindings resolved across all templated preferences
}

func analyze(g *Graph, cat *types.OptionCatalog) analysis {
	a := analysis{reachable: make(map[string][]string, len(g.order))}
	for _, id := range g.order {
		n := g.nodes[id]
		if !n.source.IsTemplate() {
			if cat.Has(n.source.Raw) {
				a.reachable[id] = []string{n.source.Raw}
			} else {
				a.errs = append(a.errs, &Error{
					Kind:       KindMissingOptionSet,
					Preference: id,
					Template:   n.source.Raw,
					Key:        n.source.Raw,
				})
			}
			continue
		}
		a.checkTemplate(g, cat, n)
	}
	return a
}

func (a *analysis) checkTemplate(g *Graph, cat *types.OptionCatalog, n *node) {
	id := n.pref.ID
	closure := g.Closure(id)
	assign := make(types.Binding, len(closure))
	seenBinding := make(map[string]bool)
	seenKey := make(map[string]bool)

	var walk func(i int)
	walk = func(i int) {
		if i < len(closure) {
			anc := g.nodes[closure[i]]
			key, err := anc.source.Resolve(assign)
			if err != nil {
				a.errs = append(a.errs, err.(*Error))
				return
			}
			set, ok := cat.Lookup(key)
			if !ok {
				return
			}
			for _, opt := range set.Options {
				assign[anc.pref.ID] = opt.ID
				walk(i + 1)
			}
			delete(assign, anc.pref.ID)
			return
		}

		sig := bindingSignature(n.deps, assign)
		if seenBinding[sig] {
			return
		}
		seenBinding[sig] = true
		a.combinations++

		key, err := n.source.Resolve(assign)
		if err != nil {
			a.errs = append(a.errs, err.(*Error))
			return
		}
		if !cat.Has(key) {
			a.errs = append(a.errs, &Error{
				Kind:       KindMissingOptionSet,
				Preference: id,
				Template:   n.source.Raw,
				Binding:    assignments(n.deps, assign),
				Key:        key,
			})
			return
		}
		if !seenKey[key] {
			seenKey[key] = true
			a.reachable[id] = append(a.reachable[id], key)
		}
	}
	walk(0)
}

func bindingSignature(ids []string, b types.Binding) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = b[id]
	}
	return strings.Join(parts, "\x00")
}

func assignments(ids []string, b types.Binding) []Assignment {
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		out[i] = Assignment{Preference: id, Option: b[id]}
	}
	return out
}
