package prefs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swatch/internal/ctxlog"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

func TestEngineEvaluate(t *testing.T) {
	e := NewEngine(newCatalog(t, paintSets()...))

	res, err := e.Evaluate(testContext(), paintDecl())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"color": "blue", "finish": "eggshell", "paint": "elegant_royal"}, res.Defaults)
	assert.Equal(t, []string{"color", "finish", "paint"}, res.Graph.Order())
	assert.Len(t, res.Reachable["paint"], 4)
	assert.Equal(t, 4, res.Combinations)
}

func TestEngineEvaluate_Failures(t *testing.T) {
	t.Run("validation errors are collected", func(t *testing.T) {
		sets := replace(paintSets(), set("color_options", "blue", "red", "green"))
		e := NewEngine(newCatalog(t, sets...))

		res, err := e.Evaluate(testContext(), paintDecl())
		assert.Nil(t, res)
		require.Error(t, err)

		var list ErrorList
		require.True(t, errors.As(err, &list))
		assert.Len(t, list, 2)
		assert.False(t, IsInternal(err))
	})

	t.Run("cycle stops before validation", func(t *testing.T) {
		e := NewEngine(newCatalog(t, paintSets()...))
		_, err := e.Evaluate(testContext(), decl(pref("a", "<B>"), pref("b", "<A>")))
		assert.ErrorIs(t, err, ErrCyclicPreferenceDependency)
		assert.Len(t, Errors(err), 1)
	})

	t.Run("unknown reference", func(t *testing.T) {
		e := NewEngine(newCatalog(t, paintSets()...))
		_, err := e.Evaluate(context.Background(), decl(pref("paint", "<FINISH>_paint")))
		assert.ErrorIs(t, err, ErrUnknownPreferenceReference)
	})
}

func TestEngineEvaluate_Concurrent(t *testing.T) {
	e := NewEngine(newCatalog(t, paintSets()...))

	var wg sync.WaitGroup
	results := make([]map[string]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Evaluate(testContext(), paintDecl())
			if err == nil {
				results[i] = res.Defaults
			}
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
		assert.Equal(t, "elegant_royal", r["paint"])
	}
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "MissingOptionSet", KindMissingOptionSet.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Equal(t, "internal", KindNoDefaultInOptionSet.Class().String())
	assert.Equal(t, "declaration", KindDuplicatePreference.Class().String())
}

func TestErrorListMessage(t *testing.T) {
	var empty ErrorList
	assert.NoError(t, empty.Err())
	assert.Equal(t, "no errors", empty.Error())

	list := ErrorList{
		{Kind: KindDuplicatePreference, Preference: "a"},
		{Kind: KindMissingOptionSet, Preference: "b", Template: "b_set", Key: "b_set"},
	}
	assert.Contains(t, list.Error(), "2 errors")
	assert.Contains(t, list.Error(), `preference "a" is declared more than once`)
	assert.ErrorIs(t, list, ErrDuplicatePreference)
	assert.ErrorIs(t, list, ErrMissingOptionSet)
}
