package prefs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllCombinationsPresent(t *testing.T) {
	cat := newCatalog(t, paintSets()...)
	errs := Validate(mustGraph(t, paintDecl()), cat)
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

// Scenario B: the default pairing's set is missing.
func TestValidate_MissingDefaultPairing(t *testing.T) {
	cat := newCatalog(t, without(paintSets(), "eggshell_blue_paint_options")...)

	errs := Validate(mustGraph(t, paintDecl()), cat)
	require.Len(t, errs, 1)

	want := &Error{
		Kind:       KindMissingOptionSet,
		Preference: "paint",
		Template:   "<FINISH>_<COLOR>_paint_options",
		Binding: []Assignment{
			{Preference: "finish", Option: "eggshell"},
			{Preference: "color", Option: "blue"},
		},
		Key: "eggshell_blue_paint_options",
	}
	if diff := cmp.Diff(want, errs[0]); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
	assert.ErrorIs(t, errs.Err(), ErrMissingOptionSet)
	assert.Contains(t, errs[0].Error(), `"eggshell_blue_paint_options"`)
}

// Scenario C: a new color has no paint sets; every finish pairing with it is reported.
func TestValidate_NonDefaultCombinations(t *testing.T) {
	sets := replace(paintSets(), set("color_options", "blue", "red", "green"))
	cat := newCatalog(t, sets...)

	errs := Validate(mustGraph(t, paintDecl()), cat)
	require.Len(t, errs, 2)

	var keys []string
	for _, e := range errs {
		assert.Equal(t, KindMissingOptionSet, e.Kind)
		assert.Equal(t, "paint", e.Preference)
		assert.Contains(t, e.Binding, Assignment{Preference: "color", Option: "green"})
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"eggshell_green_paint_options", "matte_green_paint_options"}, keys)
}

func TestValidate_LiteralMissing(t *testing.T) {
	cat := newCatalog(t, paintSets()...)
	errs := Validate(mustGraph(t, decl(pref("size", "size_options"))), cat)
	require.Len(t, errs, 1)
	assert.Equal(t, "size_options", errs[0].Key)
	assert.Empty(t, errs[0].Binding)
	assert.Equal(t, ClassValidation, errs[0].Kind.Class())
}

func TestValidate_AncestorMissingReportedOnce(t *testing.T) {
	cat := newCatalog(t, without(paintSets(), "finish_options")...)
	errs := Validate(mustGraph(t, paintDecl()), cat)
	require.Len(t, errs, 1)
	assert.Equal(t, "finish", errs[0].Preference)
	assert.Equal(t, "finish_options", errs[0].Key)
}

func TestValidate_ChainedTemplates(t *testing.T) {
	sets := replace(paintSets(), set("matte_red_paint_options", "rust", "brick"))
	sets = append(sets,
		set("elegant_royal_sheens", "satin"),
		set("navy_classic_sheens", "satin"),
		set("brick_sheens", "flat"),
		set("slate_sheens", "flat"),
	)
	d := paintDecl()
	d.Preferences = append(d.Preferences, pref("sheen", "<PAINT>_sheens"))
	g := mustGraph(t, d)

	a := analyze(g, newCatalog(t, sets...))
	require.Len(t, a.errs, 1, "only paint options a reader can reach need a sheen set")
	assert.Equal(t, "sheen", a.errs[0].Preference)
	assert.Equal(t, []Assignment{{Preference: "paint", Option: "rust"}}, a.errs[0].Binding)
	assert.Equal(t, "rust_sheens", a.errs[0].Key)

	// 4 paint pairings plus 5 distinct paint options; brick is reachable
	// twice but checked once.
	assert.Equal(t, 9, a.combinations)
	assert.Equal(t, []string{"elegant_royal_sheens", "navy_classic_sheens", "slate_sheens", "brick_sheens"}, a.reachable["sheen"])
}

func TestValidate_Reachable(t *testing.T) {
	a := analyze(mustGraph(t, paintDecl()), newCatalog(t, paintSets()...))
	require.Empty(t, a.errs)
	assert.Equal(t, []string{"color_options"}, a.reachable["color"])
	assert.Equal(t, []string{
		"eggshell_blue_paint_options",
		"matte_blue_paint_options",
		"eggshell_red_paint_options",
		"matte_red_paint_options",
	}, a.reachable["paint"])
	assert.Equal(t, 4, a.combinations)
}

func TestValidate_ErrorFreeIffAllKeysExist(t *testing.T) {
	// Dropping any single paint set must produce exactly one error naming it.
	for _, name := range []string{
		"eggshell_blue_paint_options",
		"eggshell_red_paint_options",
		"matte_blue_paint_options",
		"matte_red_paint_options",
	} {
		t.Run(name, func(t *testing.T) {
			errs := Validate(mustGraph(t, paintDecl()), newCatalog(t, without(paintSets(), name)...))
			require.Len(t, errs, 1)
			assert.Equal(t, name, errs[0].Key)
		})
	}
}
