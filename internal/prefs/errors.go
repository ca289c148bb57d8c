package prefs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Kind identifies the failure an Error describes.
type Kind int

// Error kinds.
const (
	KindUnknownPreferenceReference Kind = iota + 1
	KindDuplicatePreference
	KindCyclicPreferenceDependency
	KindMissingOptionSet
	KindUnboundPlaceholder
	KindNoDefaultInOptionSet
)

var kindNames = map[Kind]string{
	KindUnknownPreferenceReference: "UnknownPreferenceReference",
	KindDuplicatePreference:        "DuplicatePreference",
	KindCyclicPreferenceDependency: "CyclicPreferenceDependency",
	KindMissingOptionSet:           "MissingOptionSet",
	KindUnboundPlaceholder:         "UnboundPlaceholder",
	KindNoDefaultInOptionSet:       "NoDefaultInOptionSet",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Class groups kinds by who has to act on them.
type Class int

// Error classes.
const (
	ClassDeclaration Class = iota + 1 // authoring mistake in one file's declaration
	ClassCycle                        // cyclic template references in one file
	ClassValidation                   // reachable selection with no option set
	ClassInternal                     // engine defect; not an authoring mistake
)

func (c Class) String() string {
	switch c {
	case ClassDeclaration:
		return "declaration"
	case ClassCycle:
		return "cycle"
	case ClassValidation:
		return "validation"
	case ClassInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Class returns the class of k.
func (k Kind) Class() Class {
	switch k {
	case KindUnknownPreferenceReference, KindDuplicatePreference:
		return ClassDeclaration
	case KindCyclicPreferenceDependency:
		return ClassCycle
	case KindMissingOptionSet:
		return ClassValidation
	default:
		return ClassInternal
	}
}

// Internal reports whether k signals a defect in the engine itself.
func (k Kind) Internal() bool {
	return k.Class() == ClassInternal
}

// Sentinel errors, one per kind. Every *Error unwraps to the sentinel of its kind.
var (
	ErrUnknownPreferenceReference = errors.New("unknown preference reference")
	ErrDuplicatePreference        = errors.New("duplicate preference")
	ErrCyclicPreferenceDependency = errors.New("cyclic preference dependency")
	ErrMissingOptionSet           = errors.New("missing option set")
	ErrUnboundPlaceholder         = errors.New("unbound placeholder")
	ErrNoDefaultInOptionSet       = errors.New("no default in option set")
)

var kindSentinels = map[Kind]error{
	KindUnknownPreferenceReference: ErrUnknownPreferenceReference,
	KindDuplicatePreference:        ErrDuplicatePreference,
	KindCyclicPreferenceDependency: ErrCyclicPreferenceDependency,
	KindMissingOptionSet:           ErrMissingOptionSet,
	KindUnboundPlaceholder:         ErrUnboundPlaceholder,
	KindNoDefaultInOptionSet:       ErrNoDefaultInOptionSet,
}

// Assignment is one entry of a binding: a preference and the option chosen for it.
type Assignment = types.Assignment

// Error is a structured engine diagnostic. Only the fields relevant to Kind
// are set.
type Error struct {
	Kind       Kind         `json:"kind"`
	Preference string       `json:"preference,omitempty"`
	Template   string       `json:"template,omitempty"`
	Binding    []Assignment `json:"binding,omitempty"` // template reference order
	Key        string       `json:"key,omitempty"`
	Identifier string       `json:"identifier,omitempty"`
	Cycle      []string     `json:"cycle,omitempty"`
	Err        error        `json:"-"` // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case KindUnknownPreferenceReference:
		fmt.Fprintf(&b, ": preference %q references <%s> in %q, which is not declared", e.Preference, e.Identifier, e.Template)
	case KindDuplicatePreference:
		fmt.Fprintf(&b, ": preference %q is declared more than once", e.Preference)
	case KindCyclicPreferenceDependency:
		fmt.Fprintf(&b, ": %s", strings.Join(append(append([]string{}, e.Cycle...), firstOf(e.Cycle)), " -> "))
	case KindMissingOptionSet:
		fmt.Fprintf(&b, ": preference %q", e.Preference)
		if len(e.Binding) > 0 {
			fmt.Fprintf(&b, " with %s resolves %q to", formatBinding(e.Binding), e.Template)
		} else {
			b.WriteString(" names")
		}
		fmt.Fprintf(&b, " option set %q, which is not in the catalog", e.Key)
	case KindUnboundPlaceholder:
		fmt.Fprintf(&b, ": <%s> in %q has no binding", e.Identifier, e.Template)
	case KindNoDefaultInOptionSet:
		fmt.Fprintf(&b, ": option set %q resolved for preference %q", e.Key, e.Preference)
		if len(e.Binding) > 0 {
			fmt.Fprintf(&b, " with %s", formatBinding(e.Binding))
		}
		b.WriteString(" has no single default option")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func formatBinding(as []Assignment) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.Preference + ": " + a.Option
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func firstOf(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// ErrorList collects every diagnostic produced for one declaration.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(l), strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is and errors.As see every contained error.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns nil for an empty list and the list itself otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Errors flattens err into the structured errors it carries. A plain
// *Error yields a one-element list; anything else yields nil.
func Errors(err error) ErrorList {
	var list ErrorList
	if errors.As(err, &list) {
		return list
	}
	var one *Error
	if errors.As(err, &one) {
		return ErrorList{one}
	}
	return nil
}
