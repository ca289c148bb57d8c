package prefs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Segment is one piece of a parsed options source: literal text or a placeholder.
type Segment struct {
	Text  string // literal text; empty for placeholders
	Ident string // placeholder identifier as written, without brackets
	Ref   string // preference id the placeholder names, set by BuildGraph
}

// IsPlaceholder reports whether the segment is a <IDENTIFIER> placeholder.
func (s Segment) IsPlaceholder() bool {
	return s.Ident != ""
}

// Source is a parsed options source. A source without placeholders is a
// literal catalog key; otherwise it is a template.
type Source struct {
	Raw      string
	Segments []Segment
}

// ParseSource splits raw into literal and placeholder segments. A placeholder
// is "<" followed by one or more identifier characters and ">". Any other use
// of angle brackets is kept as literal text.
func ParseSource(raw string) Source {
	src := Source{Raw: raw}
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			src.Segments = append(src.Segments, Segment{Text: text.String()})
			text.Reset()
		}
	}
	for i := 0; i < len(raw); {
		if raw[i] == '<' {
			if n := placeholderLen(raw[i+1:]); n > 0 {
				flush()
				src.Segments = append(src.Segments, Segment{Ident: raw[i+1 : i+1+n]})
				i += n + 2
				continue
			}
		}
		text.WriteByte(raw[i])
		i++
	}
	flush()
	return src
}

// placeholderLen returns the identifier length when s starts with
// "IDENT>", and 0 otherwise.
func placeholderLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '>':
			return i
		case isIdentByte(c):
		default:
			return 0
		}
	}
	return 0
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// IsTemplate reports whether the source contains at least one placeholder.
func (s Source) IsTemplate() bool {
	for _, seg := range s.Segments {
		if seg.IsPlaceholder() {
			return true
		}
	}
	return false
}

// Resolve substitutes every placeholder with the lower-cased option id bound
// to the preference it names. Linked segments look up their Ref directly;
// unlinked ones match binding keys whose upper-cased form equals the
// identifier. A literal source resolves to itself.
func (s Source) Resolve(b types.Binding) (string, error) {
	if !s.IsTemplate() {
		return s.Raw, nil
	}
	var out strings.Builder
	for _, seg := range s.Segments {
		if !seg.IsPlaceholder() {
			out.WriteString(seg.Text)
			continue
		}
		v, ok, err := lookupBinding(b, seg)
		if !ok {
			return "", &Error{
				Kind:       KindUnboundPlaceholder,
				Template:   s.Raw,
				Identifier: seg.Ident,
				Preference: seg.Ref,
				Err:        err,
			}
		}
		out.WriteString(lower(v))
	}
	return out.String(), nil
}

// ErrAmbiguousBinding is the cause attached to an unbound placeholder when
// several binding keys match it case-insensitively and none matches exactly.
var ErrAmbiguousBinding = errors.New("ambiguous binding")

// lookupBinding finds the value for seg. Linked segments use their ref. An
// unlinked identifier prefers an exact key, then a single case-folded match.
func lookupBinding(b types.Binding, seg Segment) (string, bool, error) {
	if seg.Ref != "" {
		v, ok := b[seg.Ref]
		return v, ok, nil
	}
	if v, ok := b[seg.Ident]; ok {
		return v, true, nil
	}
	want := fold(seg.Ident)
	var keys []string
	for id := range b {
		if fold(id) == want {
			keys = append(keys, id)
		}
	}
	switch len(keys) {
	case 0:
		return "", false, nil
	case 1:
		return b[keys[0]], true, nil
	}
	sort.Strings(keys)
	return "", false, fmt.Errorf("%w: keys %s all match", ErrAmbiguousBinding, strings.Join(keys, ", "))
}

// Resolve parses template and resolves it against bindings keyed by
// preference id.
func Resolve(template string, bindings types.Binding) (string, error) {
	return ParseSource(template).Resolve(bindings)
}

// Casers carry state, so each call gets its own.
func fold(s string) string  { return cases.Fold().String(s) }
func lower(s string) string { return cases.Lower(language.Und).String(s) }
