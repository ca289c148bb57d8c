package prefs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

func set(name string, ids ...string) types.OptionSet {
	s := types.OptionSet{Name: name}
	for i, id := range ids {
		s.Options = append(s.Options, types.Option{ID: id, DisplayName: id, Default: i == 0})
	}
	return s
}

func newCatalog(t *testing.T, sets ...types.OptionSet) *types.OptionCatalog {
	t.Helper()
	c, err := types.NewOptionCatalog(sets...)
	require.NoError(t, err)
	return c
}

// paintSets is the catalog of the paint worked example: colors blue and
// red, finishes eggshell and matte, and a paint set for every pairing.
func paintSets() []types.OptionSet {
	return []types.OptionSet{
		set("color_options", "blue", "red"),
		set("finish_options", "eggshell", "matte"),
		set("eggshell_blue_paint_options", "elegant_royal", "navy_classic"),
		set("eggshell_red_paint_options", "brick"),
		set("matte_blue_paint_options", "slate"),
		set("matte_red_paint_options", "rust"),
	}
}

func without(sets []types.OptionSet, name string) []types.OptionSet {
	var out []types.OptionSet
	for _, s := range sets {
		if s.Name != name {
			out = append(out, s)
		}
	}
	return out
}

func replace(sets []types.OptionSet, repl types.OptionSet) []types.OptionSet {
	out := make([]types.OptionSet, len(sets))
	for i, s := range sets {
		if s.Name == repl.Name {
			s = repl
		}
		out[i] = s
	}
	return out
}

func paintDecl() types.PreferenceDeclaration {
	return types.PreferenceDeclaration{Path: "paint.md", Preferences: []types.Preference{
		{ID: "color", DisplayName: "Color", OptionsSource: "color_options"},
		{ID: "finish", DisplayName: "Finish", OptionsSource: "finish_options"},
		{ID: "paint", DisplayName: "Paint", OptionsSource: "<FINISH>_<COLOR>_paint_options"},
	}}
}

func mustGraph(t *testing.T, decl types.PreferenceDeclaration) *Graph {
	t.Helper()
	g, err := BuildGraph(decl)
	require.NoError(t, err)
	return g
}
