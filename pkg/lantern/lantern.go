package lantern

import (
	"fmt"

	"github.com/crimson-sun/lantern/internal/engine"
	"github.com/crimson-sun/lantern/internal/model"
	"github.com/crimson-sun/lantern/internal/output/ansi"
	"github.com/crimson-sun/lantern/internal/output/html"
)

// Record is one digest entry: a Line or a Skip.
type Record interface {
	record()
}

// Span is a half-open byte range [Start, End) within a line's text.
type Span struct {
	Start int
	End   int
}

// Line is a log line carried into the digest.
type Line struct {
	Number      int // zero-based index in the (possibly truncated) log
	Text        string
	Highlighted bool   // true when this line matched, not mere context
	Spans       []Span // keyword spans within Text, ascending, non-overlapping
}

// Skip marks an elided run of lines covering [Start, End).
type Skip struct {
	Count int
	Start int
	End   int
	Label string
}

func (Line) record() {}
func (Skip) record() {}

// Digest is the result of one digest pass.
type Digest struct {
	Records        []Record
	HighlightWords []string          // effective keyword list after filter narrowing
	ObjRef         map[string]string // merged object-reference record, if any
	TotalLines     int
	ElidedBytes    int // bytes removed to fit the buffer limit, 0 if untouched
}

// Lantern digests logs under one fixed policy. Safe for concurrent use;
// construction is cheap, so per-request filter changes are just a New call.
type Lantern struct {
	engine *engine.Engine
	o      options
}

// New creates a Lantern.
func New(opts ...Option) *Lantern {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	eng := engine.New(engine.Config{
		BufferLimit:   o.bufferLimit,
		Radius:        o.radius,
		MaxHighlights: o.maxHighlights,
		Strict:        o.strict,
		Logger:        o.logger,
	})
	return &Lantern{engine: eng, o: o}
}

// Digest returns the record sequence for raw log bytes.
func (l *Lantern) Digest(data []byte) (Digest, error) {
	d, err := l.run(data)
	if err != nil {
		return Digest{}, err
	}
	return fromModel(d), nil
}

// HTML digests raw log bytes and renders the records as an HTML fragment,
// content-escaped, with highlight, keyword and skip span markers.
func (l *Lantern) HTML(data []byte) (string, error) {
	d, err := l.run(data)
	if err != nil {
		return "", err
	}
	return html.New().Render(d)
}

// ANSI digests raw log bytes and renders the records as terminal text.
func (l *Lantern) ANSI(data []byte) (string, error) {
	d, err := l.run(data)
	if err != nil {
		return "", err
	}
	return ansi.New().Render(d)
}

func (l *Lantern) run(data []byte) (model.Digest, error) {
	req := engine.Request{
		Filters:   l.o.filters,
		Matcher:   l.o.matcher,
		SkipLabel: l.o.skipLabel,
	}
	if len(l.o.seed) > 0 {
		req.Seed = l.o.seed
	}
	d, err := l.engine.Digest(data, req)
	if err != nil {
		return model.Digest{}, fmt.Errorf("lantern: %w", err)
	}
	return d, nil
}

func fromModel(d model.Digest) Digest {
	records := make([]Record, len(d.Records))
	for i, rec := range d.Records {
		switch r := rec.(type) {
		case model.Line:
			spans := make([]Span, len(r.Spans))
			for j, s := range r.Spans {
				spans[j] = Span{Start: s.Start, End: s.End}
			}
			records[i] = Line{
				Number:      r.Number,
				Text:        r.Text,
				Highlighted: r.Highlighted,
				Spans:       spans,
			}
		case model.Skip:
			records[i] = Skip{
				Count: r.Count,
				Start: r.Start,
				End:   r.End,
				Label: r.Label,
			}
		}
	}
	return Digest{
		Records:        records,
		HighlightWords: d.HighlightWords,
		ObjRef:         d.ObjRef,
		TotalLines:     d.TotalLines,
		ElidedBytes:    d.ElidedBytes,
	}
}
