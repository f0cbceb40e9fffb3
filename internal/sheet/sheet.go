// Package sheet renders a generated impro as a printable sheet.
package sheet

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/caucus/internal/caucus"
)

// Built-in formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Row is one student line of the sheet.
type Row struct {
	Student   string
	Character string
	Mood      string
}

// Widths holds the display width of each text column, headers included.
type Widths struct {
	Student   int
	Character int
	Mood      int
}

// Data is what sheet templates are executed with.
type Data struct {
	Places     []caucus.Place
	PlaceNames []string
	Rows       []Row
	Widths     Widths
}

// Renderer turns an Impro into text through a template.
type Renderer struct {
	template *template.Template
}

var funcs = template.FuncMap{
	"pad":  func(s string, w int) string { return runewidth.FillRight(s, w) },
	"rule": func(w int) string { return strings.Repeat("-", w) },
	"join": strings.Join,
	"md":   escapeMarkdown,
}

// NewRenderer returns a renderer for one of the built-in formats.
func NewRenderer(format string) (*Renderer, error) {
	var src string
	switch format {
	case FormatText, "":
		src = TextTemplate
	case FormatMarkdown:
		src = MarkdownTemplate
	default:
		return nil, fmt.Errorf("unknown sheet format %q", format)
	}
	return &Renderer{template: template.Must(template.New("sheet").Funcs(funcs).Parse(src))}, nil
}

// SetTemplate replaces the template with a custom one.
func (r *Renderer) SetTemplate(tmpl string) error {
	t, err := template.New("sheet").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	r.template = t
	return nil
}

// LoadTemplate reads a custom template from path.
func (r *Renderer) LoadTemplate(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	return r.SetTemplate(string(b))
}

// Render executes the template for imp.
func (r *Renderer) Render(imp caucus.Impro) (string, error) {
	var buf bytes.Buffer
	if err := r.template.Execute(&buf, BuildData(imp)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// Summary is a one-line description of imp, used in status lines.
func Summary(imp caucus.Impro) string {
	parts := make([]string, 0, len(imp.Assignments))
	for _, a := range imp.Assignments {
		parts = append(parts, fmt.Sprintf("%s as %s (%s)", a.Student.Name, a.Character.Name, a.Mood.Name))
	}
	s := strings.Join(parts, ", ")
	if names := placeNames(imp.Places); len(names) > 0 {
		s += " at " + strings.Join(names, " / ")
	}
	return s
}

// BuildData resolves the template data for imp.
func BuildData(imp caucus.Impro) Data {
	d := Data{
		Places:     imp.Places,
		PlaceNames: placeNames(imp.Places),
		Rows:       make([]Row, 0, len(imp.Assignments)),
		Widths: Widths{
			Student:   runewidth.StringWidth(headerStudent),
			Character: runewidth.StringWidth(headerCharacter),
			Mood:      runewidth.StringWidth(headerMood),
		},
	}
	for _, a := range imp.Assignments {
		row := Row{Student: a.Student.Name, Character: a.Character.Name, Mood: a.Mood.Name}
		d.Widths.Student = max(d.Widths.Student, runewidth.StringWidth(row.Student))
		d.Widths.Character = max(d.Widths.Character, runewidth.StringWidth(row.Character))
		d.Widths.Mood = max(d.Widths.Mood, runewidth.StringWidth(row.Mood))
		d.Rows = append(d.Rows, row)
	}
	return d
}

func placeNames(places []caucus.Place) []string {
	names := make([]string, 0, len(places))
	for _, p := range places {
		names = append(names, p.Name)
	}
	return names
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`).Replace(s)
}

const (
	headerStudent   = "Student"
	headerCharacter = "Character"
	headerMood      = "Mood"
)

// TextTemplate prints aligned columns for a terminal or a plain text file.
const TextTemplate = `Places: {{ join .PlaceNames ", " }}

{{ pad "Student" .Widths.Student }}  {{ pad "Character" .Widths.Character }}  Mood
{{ rule .Widths.Student }}  {{ rule .Widths.Character }}  {{ rule .Widths.Mood }}
{{ range .Rows }}{{ pad .Student $.Widths.Student }}  {{ pad .Character $.Widths.Character }}  {{ .Mood }}
{{ end }}`

// MarkdownTemplate prints a markdown table.
const MarkdownTemplate = `## Impro

**Places:** {{ range $i, $p := .Places }}{{ if $i }}, {{ end }}{{ md $p.Name }}{{ end }}

| Student | Character | Mood |
|---|---|---|
{{ range .Rows }}| {{ md .Student }} | {{ md .Character }} | {{ md .Mood }} |
{{ end }}`
