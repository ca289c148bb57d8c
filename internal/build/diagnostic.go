package build

import (
	"github.com/mesh-intelligence/swatch/internal/prefs"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Kinds and class for failures that happen before the engine runs.
const (
	KindReadError        = "ReadError"
	KindFrontmatterError = "FrontmatterError"
	KindRenderError      = "RenderError"
	KindWriteError       = "WriteError"
	KindEngineError      = "EngineError"
	ClassInput           = "input"
)

// diagnostics converts err into stored diagnostics for path. Engine errors
// keep their structured fields; anything else becomes one diagnostic of the
// given fallback kind.
func diagnostics(path string, err error, fallbackKind string) []types.Diagnostic {
	list := prefs.Errors(err)
	if len(list) == 0 {
		return []types.Diagnostic{{
			Path:    path,
			Kind:    fallbackKind,
			Class:   ClassInput,
			Message: err.Error(),
		}}
	}
	out := make([]types.Diagnostic, len(list))
	for i, e := range list {
		out[i] = types.Diagnostic{
			Path:       path,
			Kind:       e.Kind.String(),
			Class:      e.Kind.Class().String(),
			Preference: e.Preference,
			Template:   e.Template,
			Binding:    e.Binding,
			Key:        e.Key,
			Identifier: e.Identifier,
			Cycle:      e.Cycle,
			Message:    e.Error(),
		}
	}
	return out
}

// Diagnostics converts an error returned by Evaluate for the file at path
// into diagnostics, the same way a run reports it.
func Diagnostics(path string, err error) []types.Diagnostic {
	return diagnostics(path, err, KindEngineError)
}
