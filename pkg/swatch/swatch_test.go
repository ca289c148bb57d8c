package swatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

const catalogYAML = `
color_options:
  - {id: blue, name: Blue, default: true}
  - {id: red, name: Red}
finish_options:
  - {id: eggshell, name: Eggshell, default: true}
  - {id: matte, name: Matte}
eggshell_blue_paint_options:
  - {id: elegant_royal, name: Elegant Royal, default: true}
  - {id: navy_classic, name: Navy Classic}
eggshell_red_paint_options:
  - {id: brick, name: Brick, default: true}
matte_blue_paint_options:
  - {id: slate, name: Slate, default: true}
matte_red_paint_options:
  - {id: rust, name: Rust, default: true}
`

const page = `---
preferences:
  - {id: color, name: Color, options: color_options}
  - {id: finish, name: Finish, options: finish_options}
  - {id: paint, name: Paint, options: <FINISH>_<COLOR>_paint_options}
---
`

func TestEvaluate(t *testing.T) {
	cat, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	decl, err := ParseDeclaration("paint.md", []byte(page))
	require.NoError(t, err)

	ev, err := Evaluate(context.Background(), cat, decl)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"color": "blue", "finish": "eggshell", "paint": "elegant_royal"}, ev.Defaults)
	assert.Equal(t, []string{"color", "finish", "paint"}, ev.Order)
	assert.Len(t, ev.Reachable["paint"], 4)
}

func TestEvaluate_Errors(t *testing.T) {
	cat, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	decl := types.PreferenceDeclaration{Preferences: []types.Preference{
		{ID: "color", OptionsSource: "color_options"},
		{ID: "sheen", OptionsSource: "<GLOSS>_sheens"},
	}}
	_, err = Evaluate(context.Background(), cat, decl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPreferenceReference))
	assert.False(t, errors.Is(err, ErrMissingOptionSet))
}

func TestResolve(t *testing.T) {
	got, err := Resolve("<Finish>_<COLOR>_paint_options", types.Binding{"finish": "Matte", "color": "red"})
	require.NoError(t, err)
	assert.Equal(t, "matte_red_paint_options", got)

	_, err = Resolve("<SIZE>_x", types.Binding{})
	assert.ErrorIs(t, err, ErrUnboundPlaceholder)

	_, err = Resolve("<Size>_x", types.Binding{"size": "s", "SIZE": "l"})
	assert.ErrorIs(t, err, ErrAmbiguousBinding)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
}
