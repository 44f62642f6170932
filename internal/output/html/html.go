// Package html renders a digest as a flat HTML fragment: lines separated by
// newlines, highlighted lines and keywords wrapped in span markers, skip
// records as span markers carrying the elided range.
package html

import (
	"fmt"
	"html"
	"strings"

	"github.com/crimson-sun/lantern/internal/model"
)

// Renderer emits the digest fragment. The zero value is ready to use.
type Renderer struct{}

// New creates an HTML Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render concatenates the records into an HTML fragment. Log-derived text is
// escaped before the markers are applied, so the markers themselves are never
// escaped.
func (r *Renderer) Render(d model.Digest) (string, error) {
	var b strings.Builder
	for i, rec := range d.Records {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch rec := rec.(type) {
		case model.Line:
			writeLine(&b, rec)
		case model.Skip:
			fmt.Fprintf(&b, `<span class="skip" data-range="%d-%d">%s</span>`,
				rec.Start, rec.End, html.EscapeString(rec.Label))
		default:
			return "", fmt.Errorf("html: unknown record type %T", rec)
		}
	}
	return b.String(), nil
}

func writeLine(b *strings.Builder, line model.Line) {
	if !line.Highlighted {
		b.WriteString(html.EscapeString(line.Text))
		return
	}
	b.WriteString(`<span class="highlight">`)
	pos := 0
	for _, span := range line.Spans {
		if span.Start < pos || span.End > len(line.Text) {
			continue
		}
		b.WriteString(html.EscapeString(line.Text[pos:span.Start]))
		b.WriteString(`<span class="keyword">`)
		b.WriteString(html.EscapeString(line.Text[span.Start:span.End]))
		b.WriteString(`</span>`)
		pos = span.End
	}
	b.WriteString(html.EscapeString(line.Text[pos:]))
	b.WriteString(`</span>`)
}
