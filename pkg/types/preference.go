package types

import (
	"errors"
	"fmt"
)

// Preference is a reader-facing selector whose options come from one option
// set. OptionsSource is either a literal catalog key or a template embedding
// <IDENTIFIER> placeholders that name other preferences in the same declaration.
type Preference struct {
	ID            string `json:"id" yaml:"id"`
	DisplayName   string `json:"display_name" yaml:"display_name"`
	OptionsSource string `json:"options_source" yaml:"options_source"`
}

// PreferenceDeclaration is the ordered list of preferences declared by one
// content file. Path identifies the file for diagnostics and may be empty.
type PreferenceDeclaration struct {
	Path        string
	Preferences []Preference
}

// Binding assigns a concrete option id to each referenced preference id.
type Binding map[string]string

// Declaration errors.
var (
	ErrEmptyPreferenceID  = errors.New("preference id must not be empty")
	ErrEmptyOptionsSource = errors.New("preference options source must not be empty")
)

// Validate checks the shape of every preference. All problems are returned,
// each wrapping one of the sentinel errors above. Id uniqueness is left to the
// dependency graph, which compares ids case-insensitively.
func (d PreferenceDeclaration) Validate() []error {
	var errs []error
	for i, p := range d.Preferences {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("preference #%d: %w", i+1, ErrEmptyPreferenceID))
		case p.OptionsSource == "":
			errs = append(errs, fmt.Errorf("preference %q: %w", p.ID, ErrEmptyOptionsSource))
		}
	}
	return errs
}
