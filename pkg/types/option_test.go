package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionSetDefault(t *testing.T) {
	tests := []struct {
		name    string
		set     OptionSet
		wantID  string
		wantErr error
	}{
		{
			name: "single default",
			set: OptionSet{Name: "color_options", Options: []Option{
				{ID: "red"}, {ID: "blue", Default: true},
			}},
			wantID: "blue",
		},
		{
			name:    "no default",
			set:     OptionSet{Name: "color_options", Options: []Option{{ID: "red"}}},
			wantErr: ErrNoDefaultOption,
		},
		{
			name: "two defaults",
			set: OptionSet{Name: "color_options", Options: []Option{
				{ID: "red", Default: true}, {ID: "blue", Default: true},
			}},
			wantErr: ErrMultipleDefaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.set.Default()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestOptionSetValidate(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		errs := OptionSet{Name: "x"}.Validate()
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrEmptyOptionSet)
	})

	t.Run("collects every problem", func(t *testing.T) {
		errs := OptionSet{Name: "x", Options: []Option{
			{ID: "a"}, {ID: "a"}, {ID: ""},
		}}.Validate()
		require.Len(t, errs, 3)
		assert.ErrorIs(t, errs[0], ErrDuplicateOptionID)
		assert.ErrorIs(t, errs[1], ErrEmptyOptionID)
		assert.ErrorIs(t, errs[2], ErrNoDefaultOption)
	})

	t.Run("valid set", func(t *testing.T) {
		errs := OptionSet{Name: "x", Options: []Option{
			{ID: "a", Default: true}, {ID: "b"},
		}}.Validate()
		assert.Empty(t, errs)
	})
}

func TestOptionCatalog(t *testing.T) {
	c, err := NewOptionCatalog(
		OptionSet{Name: "finish_options", Options: []Option{{ID: "matte", Default: true}}},
		OptionSet{Name: "color_options", Options: []Option{{ID: "blue", Default: true}}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"finish_options", "color_options"}, c.Names())
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Has("color_options"))
	assert.False(t, c.Has("paint_options"))

	set, ok := c.Lookup("color_options")
	require.True(t, ok)
	assert.Equal(t, "blue", set.Options[0].ID)

	_, err = NewOptionCatalog(
		OptionSet{Name: "a", Options: []Option{{ID: "x", Default: true}}},
		OptionSet{Name: "a", Options: []Option{{ID: "y", Default: true}}},
	)
	assert.ErrorIs(t, err, ErrDuplicateOptionSet)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestNilCatalog(t *testing.T) {
	var c *OptionCatalog
	assert.False(t, c.Has("anything"))
	assert.Nil(t, c.Names())
	assert.Equal(t, 0, c.Len())
}
