// Package ansi renders a digest for terminal viewing: highlighted lines in
// bold red with inverted keyword hits, skip markers dimmed.
package ansi

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/crimson-sun/lantern/internal/model"
)

// Renderer styles the digest for a terminal. Styling degrades with the
// terminal's color profile; on a dumb pipe the text comes through plain.
type Renderer struct {
	line    lipgloss.Style
	keyword lipgloss.Style
	skip    lipgloss.Style
}

// New creates an ANSI Renderer with the stock styles.
func New() *Renderer {
	return &Renderer{
		line:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		keyword: lipgloss.NewStyle().Reverse(true),
		skip:    lipgloss.NewStyle().Faint(true),
	}
}

// Render concatenates the records into terminal output, one record per line.
func (r *Renderer) Render(d model.Digest) (string, error) {
	var b strings.Builder
	for i, rec := range d.Records {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch rec := rec.(type) {
		case model.Line:
			b.WriteString(r.renderLine(rec))
		case model.Skip:
			b.WriteString(r.skip.Render(rec.Label))
		}
	}
	return b.String(), nil
}

func (r *Renderer) renderLine(line model.Line) string {
	if !line.Highlighted {
		return line.Text
	}
	var b strings.Builder
	pos := 0
	for _, span := range line.Spans {
		if span.Start < pos || span.End > len(line.Text) {
			continue
		}
		b.WriteString(r.line.Render(line.Text[pos:span.Start]))
		b.WriteString(r.keyword.Render(line.Text[span.Start:span.End]))
		pos = span.End
	}
	b.WriteString(r.line.Render(line.Text[pos:]))
	return b.String()
}
