package prefs

import "github.com/mesh-intelligence/swatch/pkg/types"

type node struct {
	pref   types.Preference
	source Source
	deps   []string // referenced preference ids, order of first use in the template
}

// Graph is the dependency graph of one preference declaration together with
// a topological order in which every preference follows the preferences its
// template references. Validate and DeriveDefaults both walk this order.
type Graph struct {
	nodes    map[string]*node
	order    []string
	declared []string
}

// BuildGraph parses every options source in decl, links each placeholder to
// the declared preference whose id matches it case-insensitively, and orders
// the preferences by dependency.
//
// Declaration problems are all reported together as an ErrorList of
// DuplicatePreference and UnknownPreferenceReference errors. Two ids that
// differ only by case are duplicates, since one placeholder would name both.
// If the declaration is well-formed but its references form a cycle, a single
// CyclicPreferenceDependency error is returned naming the cycle members in
// detection order.
func BuildGraph(decl types.PreferenceDeclaration) (*Graph, error) {
	g := &Graph{
		nodes:    make(map[string]*node, len(decl.Preferences)),
		declared: make([]string, 0, len(decl.Preferences)),
	}
	var errs ErrorList

	byFold := make(map[string]string, len(decl.Preferences))
	for _, p := range decl.Preferences {
		f := fold(p.ID)
		if _, dup := byFold[f]; dup {
			errs = append(errs, &Error{Kind: KindDuplicatePreference, Preference: p.ID})
			continue
		}
		byFold[f] = p.ID
		g.nodes[p.ID] = &node{pref: p, source: ParseSource(p.OptionsSource)}
		g.declared = append(g.declared, p.ID)
	}

	for _, id := range g.declared {
		n := g.nodes[id]
		seen := make(map[string]bool)
		for i := range n.source.Segments {
			seg := &n.source.Segments[i]
			if !seg.IsPlaceholder() {
				continue
			}
			ref, ok := byFold[fold(seg.Ident)]
			if !ok {
				errs = append(errs, &Error{
					Kind:       KindUnknownPreferenceReference,
					Preference: id,
					Template:   n.source.Raw,
					Identifier: seg.Ident,
				})
				continue
			}
			seg.Ref = ref
			if !seen[ref] {
				seen[ref] = true
				n.deps = append(n.deps, ref)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := g.sort(); err != nil {
		return nil, err
	}
	return g, nil
}

// sort computes the topological order with a depth-first walk that marks
// nodes as visiting while they are on the stack. Roots are taken in
// declaration order and dependencies in template order, so the result is
// deterministic.
func (g *Graph) sort() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, s := range stack {
				if s == id {
					start = i
					break
				}
			}
			cycle := append([]string{}, stack[start:]...)
			return &Error{
				Kind:       KindCyclicPreferenceDependency,
				Preference: id,
				Template:   g.nodes[id].source.Raw,
				Cycle:      cycle,
			}
		}
		state[id] = visiting
		stack = append(stack, id)
		for _, dep := range g.nodes[id].deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		g.order = append(g.order, id)
		return nil
	}

	for _, id := range g.declared {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// Order returns the preference ids in evaluation order.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// Len returns the number of preferences in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Preference returns the declared preference with the given id.
func (g *Graph) Preference(id string) (types.Preference, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return types.Preference{}, false
	}
	return n.pref, true
}

// Source returns the parsed and linked options source of a preference.
func (g *Graph) Source(id string) (Source, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Source{}, false
	}
	return n.source, true
}

// Dependencies returns the ids directly referenced by the preference's template.
func (g *Graph) Dependencies(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]string(nil), n.deps...)
}

// Closure returns every preference the given one depends on, directly or
// transitively, in evaluation order. The preference itself is not included.
func (g *Graph) Closure(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	in := make(map[string]bool)
	var mark func(ids []string)
	mark = func(ids []string) {
		for _, d := range ids {
			if !in[d] {
				in[d] = true
				mark(g.nodes[d].deps)
			}
		}
	}
	mark(n.deps)

	out := make([]string, 0, len(in))
	for _, o := range g.order {
		if in[o] {
			out = append(out, o)
		}
	}
	return out
}
