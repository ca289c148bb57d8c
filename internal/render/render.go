// Package render writes the HTML page for one evaluated content file.
//
// Every preference becomes a selector. A templated preference carries one
// option group per option set a reader's selections can reach, tagged with
// the set's key; only the group matching the default selections is shown
// initially. The markup body is emitted as escaped paragraphs.
package render

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/mesh-intelligence/swatch/internal/frontmatter"
	"github.com/mesh-intelligence/swatch/internal/prefs"
	"github.com/mesh-intelligence/swatch/pkg/types"
)

// Page is the template data for one content file.
type Page struct {
	Title       string
	Paragraphs  []string
	Preferences []Preference
}

// Preference is one selector on the page.
type Preference struct {
	ID          string
	DisplayName string
	Source      string
	Templated   bool
	Default     string
	Groups      []Group
}

// Group is the option list of one reachable option set. Only options of the
// active group are ever selected; Default names the set's own default for
// switching groups client-side.
type Group struct {
	Key     string
	Active  bool
	Default string
	Options []Option
}

// Option is one selectable entry in a group.
type Option struct {
	ID          string
	DisplayName string
	Selected    bool
}

// NewPage assembles the page data from a parsed document and the engine result.
func NewPage(doc *frontmatter.Document, res *prefs.Result, cat *types.OptionCatalog) Page {
	p := Page{
		Title:      doc.Title,
		Paragraphs: paragraphs(doc.Body),
	}
	if p.Title == "" {
		p.Title = doc.Path
	}

	for _, decl := range doc.Declaration.Preferences {
		src, _ := res.Graph.Source(decl.ID)
		active, _ := src.Resolve(bindingOf(res, decl.ID))
		view := Preference{
			ID:          decl.ID,
			DisplayName: decl.DisplayName,
			Source:      decl.OptionsSource,
			Templated:   src.IsTemplate(),
			Default:     res.Defaults[decl.ID],
		}
		for _, key := range res.Reachable[decl.ID] {
			set, ok := cat.Lookup(key)
			if !ok {
				continue
			}
			g := Group{Key: key, Active: key == active}
			if def, err := set.Default(); err == nil {
				g.Default = def.ID
			}
			for _, o := range set.Options {
				selected := g.Active && o.ID == view.Default
				g.Options = append(g.Options, Option{ID: o.ID, DisplayName: o.DisplayName, Selected: selected})
			}
			view.Groups = append(view.Groups, g)
		}
		p.Preferences = append(p.Preferences, view)
	}
	return p
}

func bindingOf(res *prefs.Result, id string) types.Binding {
	b := make(types.Binding)
	for _, dep := range res.Graph.Dependencies(id) {
		b[dep] = res.Defaults[dep]
	}
	return b
}

func paragraphs(body []byte) []string {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// Write renders p as a complete HTML document.
func Write(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}

// Bytes renders p into memory.
func Bytes(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Preferences}}
<form class="preferences">
{{- range .Preferences}}
<label for="pref-{{.ID}}">{{.DisplayName}}</label>
<select id="pref-{{.ID}}" name="{{.ID}}" data-source="{{.Source}}" data-default="{{.Default}}"{{if .Templated}} data-templated{{end}}>
{{- range .Groups}}
<optgroup label="{{.Key}}" data-key="{{.Key}}" data-default="{{.Default}}"{{if not .Active}} hidden disabled{{end}}>
{{- range .Options}}
<option value="{{.ID}}"{{if .Selected}} selected{{end}}>{{.DisplayName}}</option>
{{- end}}
</optgroup>
{{- end}}
</select>
{{- end}}
</form>
{{- end}}
<article>
{{- range .Paragraphs}}
<p>{{.}}</p>
{{- end}}
</article>
</body>
</html>
`
