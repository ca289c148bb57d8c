// Package frontmatter splits a content file into its YAML frontmatter and
// body, and decodes the page title and preference declaration from the
// frontmatter. The body is returned untouched.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/swatch/pkg/types"
)

const delimiter = "---"

// Frontmatter errors.
var (
	ErrUnterminated = errors.New("frontmatter is not closed by a --- line")
)

// Document is a parsed content file.
type Document struct {
	Path        string
	Title       string
	Declaration types.PreferenceDeclaration
	Body        []byte
}

type preferenceYAML struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	DisplayName   string `yaml:"display_name"`
	Options       string `yaml:"options"`
	OptionsSource string `yaml:"options_source"`
}

type headerYAML struct {
	Title       string           `yaml:"title"`
	Preferences []preferenceYAML `yaml:"preferences"`
}

// Parse reads data as a content file at path. A file that does not start
// with a --- line has no frontmatter and declares no preferences.
func Parse(path string, data []byte) (*Document, error) {
	doc := &Document{Path: path, Declaration: types.PreferenceDeclaration{Path: path}}

	header, body, ok, err := split(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Body = body
	if !ok {
		return doc, nil
	}

	var h headerYAML
	if err := yaml.Unmarshal(header, &h); err != nil {
		return nil, fmt.Errorf("%s: parse frontmatter: %w", path, err)
	}
	doc.Title = h.Title

	for _, p := range h.Preferences {
		doc.Declaration.Preferences = append(doc.Declaration.Preferences, types.Preference{
			ID:            p.ID,
			DisplayName:   firstNonEmpty(p.DisplayName, p.Name, p.ID),
			OptionsSource: firstNonEmpty(p.OptionsSource, p.Options),
		})
	}
	if errs := doc.Declaration.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", path, errors.Join(errs...))
	}
	return doc, nil
}

// split separates the frontmatter block from the body. ok is false when data
// has no frontmatter.
func split(data []byte) (header, body []byte, ok bool, err error) {
	first, rest, _ := cutLine(data)
	if !isDelimiter(first) {
		return nil, data, false, nil
	}
	start := len(data) - len(rest)
	for offset := start; offset < len(data); {
		line, next, found := cutLine(data[offset:])
		if isDelimiter(line) {
			return data[start:offset], next, true, nil
		}
		if !found {
			break
		}
		offset = len(data) - len(next)
	}
	return nil, nil, false, ErrUnterminated
}

func cutLine(data []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(data, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == delimiter
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
