// Package catalog loads the option catalog from YAML and checks the
// configuration-level invariants every option set must satisfy before any
// content file is processed.
//
// The file is a mapping from option-set name to a list of options:
//
//	color_options:
//	  - id: blue
//	    name: Blue
//	    default: true
//	  - id: red
//	    name: Red
//
// Mapping order is kept as catalog order. The whole mapping may also be
// nested under a top-level "options" key.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Load errors.
var (
	ErrNotMapping  = errors.New("catalog must be a mapping of option-set names to option lists")
	ErrNotSequence = errors.New("option set must be a list of options")
)

// Error is a configuration error in one option set.
type Error struct {
	Set string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("option set %q: %v", e.Set, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type optionYAML struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Default     bool   `yaml:"default"`
}

// Load reads, parses and validates the catalog file at path.
func Load(path string) (*types.OptionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates a catalog document. Every invalid option set is
// reported; the returned error joins one *Error per problem. Sets that cannot
// be decoded or repeat an earlier name are reported first, then the structural
// problems of the sets that did decode.
func Parse(data []byte) (*types.OptionCatalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return types.NewOptionCatalog()
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	if len(root.Content) == 2 && root.Content[0].Value == "options" && root.Content[1].Kind == yaml.MappingNode {
		root = root.Content[1]
	}

	var errs []error
	sets := make([]types.OptionSet, 0, len(root.Content)/2)
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		name := key.Value
		if seen[name] {
			errs = append(errs, &Error{Set: name, Err: fmt.Errorf("line %d: %w", key.Line, types.ErrDuplicateOptionSet)})
			continue
		}
		seen[name] = true
		if val.Kind != yaml.SequenceNode {
			errs = append(errs, &Error{Set: name, Err: fmt.Errorf("line %d: %w", val.Line, ErrNotSequence)})
			continue
		}
		var raw []optionYAML
		if err := val.Decode(&raw); err != nil {
			errs = append(errs, &Error{Set: name, Err: err})
			continue
		}
		s := types.OptionSet{Name: name, Options: make([]types.Option, len(raw))}
		for j, o := range raw {
			display := o.DisplayName
			if display == "" {
				display = o.Name
			}
			if display == "" {
				display = o.ID
			}
			s.Options[j] = types.Option{ID: o.ID, DisplayName: display, Default: o.Default}
		}
		sets = append(sets, s)
	}

	cat, err := types.NewOptionCatalog(sets...)
	if err != nil {
		return nil, err
	}
	errs = append(errs, Validate(cat)...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cat, nil
}

// Validate checks every option set in cat: non-empty, non-empty and unique
// option ids, exactly one default. It returns one *Error per problem.
func Validate(cat *types.OptionCatalog) []error {
	var errs []error
	for _, name := range cat.Names() {
		s, _ := cat.Lookup(name)
		for _, err := range s.Validate() {
			errs = append(errs, &Error{Set: name, Err: err})
		}
	}
	return errs
}
