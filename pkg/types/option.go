package types

import "errors"

// Option is one selectable value within an option set.
type Option struct {
	ID          string `json:"id" yaml:"id"`                     // Identity within its option set.
	DisplayName string `json:"display_name" yaml:"display_name"` // Label shown to readers.
	Default     bool   `json:"default,omitempty" yaml:"default"` // At most one per set.
}

// OptionSet is a named, ordered list of options.
type OptionSet struct {
	Name    string
	Options []Option
}

// Option set errors.
var (
	ErrEmptyOptionSet    = errors.New("option set has no options")
	ErrNoDefaultOption   = errors.New("option set has no default option")
	ErrMultipleDefaults  = errors.New("option set has more than one default option")
	ErrDuplicateOptionID = errors.New("duplicate option id in option set")
	ErrEmptyOptionID     = errors.New("option id must not be empty")
)

// Default returns the option flagged as default.
// Returns ErrNoDefaultOption or ErrMultipleDefaults when the set does not
// carry exactly one default.
func (s OptionSet) Default() (Option, error) {
	var (
		found Option
		count int
	)
	for _, o := range s.Options {
		if o.Default {
			if count == 0 {
				found = o
			}
			count++
		}
	}
	switch count {
	case 0:
		return Option{}, ErrNoDefaultOption
	case 1:
		return found, nil
	default:
		return Option{}, ErrMultipleDefaults
	}
}

// Validate reports every structural problem with the set: emptiness, empty or
// duplicate option ids, and a default count other than one.
func (s OptionSet) Validate() []error {
	if len(s.Options) == 0 {
		return []error{ErrEmptyOptionSet}
	}
	var errs []error
	seen := make(map[string]bool, len(s.Options))
	for _, o := range s.Options {
		if o.ID == "" {
			errs = append(errs, ErrEmptyOptionID)
			continue
		}
		if seen[o.ID] {
			errs = append(errs, ErrDuplicateOptionID)
		}
		seen[o.ID] = true
	}
	if _, err := s.Default(); err != nil {
		errs = append(errs, err)
	}
	return errs
}
