package prefs

import "github.com/mesh-intelligence/swatch/pkg/types"

// DeriveDefaults computes the default option id of every preference. It walks
// the graph's evaluation order, so each template is resolved with the already
// derived defaults of the preferences it references.
//
// Call it only after Validate has passed. A missing set or a set without
// exactly one default is still reported, as MissingOptionSet or
// NoDefaultInOptionSet, because a templated preference selects its set
// dynamically.
func DeriveDefaults(g *Graph, cat *types.OptionCatalog) (map[string]string, error) {
	defaults := make(map[string]string, len(g.order))
	for _, id := range g.order {
		n := g.nodes[id]

		var binding []Assignment
		bound := make(types.Binding, len(n.deps))
		for _, dep := range n.deps {
			bound[dep] = defaults[dep]
			binding = append(binding, Assignment{Preference: dep, Option: defaults[dep]})
		}

		key, err := n.source.Resolve(bound)
		if err != nil {
			return nil, err
		}
		set, ok := cat.Lookup(key)
		if !ok {
			return nil, &Error{
				Kind:       KindMissingOptionSet,
				Preference: id,
				Template:   n.source.Raw,
				Binding:    binding,
				Key:        key,
			}
		}
		def, err := set.Default()
		if err != nil {
			return nil, &Error{
				Kind:       KindNoDefaultInOptionSet,
				Preference: id,
				Template:   n.source.Raw,
				Binding:    binding,
				Key:        key,
				Err:        err,
			}
		}
		defaults[id] = def.ID
	}
	return defaults, nil
}

// IsInternal reports whether err carries an engine defect rather than an
// authoring mistake.
func IsInternal(err error) bool {
	for _, e := range Errors(err) {
		if e.Kind.Internal() {
			return true
		}
	}
	return false
}
