// Package window collapses a classified log into an ordered record sequence:
// matched lines highlighted, a bounded context of verbatim lines around each,
// and skip markers standing in for the elided gaps.
package window

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/crimson-sun/lantern/internal/model"
)

const (
	// DefaultRadius is the number of verbatim lines shown on each side of a
	// match.
	DefaultRadius = 6
	// DefaultMaxHighlights is the match-count ceiling past which the context
	// radius degrades to zero, keeping output bounded on logs where nearly
	// every line matches.
	DefaultMaxHighlights = 2000
)

// Options configures one rendering pass. Use DefaultOptions as the base; the
// zero value of Radius is a legitimate setting (no context), so defaults are
// not inferred from zero values.
type Options struct {
	Radius        int
	MaxHighlights int
	Matcher       *regexp.Regexp    // computes keyword spans on matched lines; nil disables spans
	SkipLabel     func(n int) string // nil means DefaultSkipLabel
}

// DefaultOptions returns the stock rendering policy.
func DefaultOptions() Options {
	return Options{
		Radius:        DefaultRadius,
		MaxHighlights: DefaultMaxHighlights,
		SkipLabel:     DefaultSkipLabel,
	}
}

// DefaultSkipLabel formats the marker text for a skipped run.
func DefaultSkipLabel(n int) string {
	return fmt.Sprintf("... skipping %d lines ...", n)
}

// Render walks the matches in ascending order with a sentinel appended at
// len(lines) and emits, per match: the previous match's trailing context, a
// skip marker for the gap (suppressed for single-line gaps, which are shown
// verbatim instead), the leading context, and the highlighted match itself.
//
// The radius drops to zero at the sentinel once a real match has been seen;
// no leading context is owed past the last match. With no matches at all the
// regular window math runs against the sentinel, so a log shorter than the
// radius passes through verbatim and a longer one collapses into a single
// skip followed by the tail window.
func Render(lines []string, matches []int, opts Options) []model.Record {
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}
	if opts.MaxHighlights > 0 && len(matches) > opts.MaxHighlights {
		radius = 0
	}
	label := opts.SkipLabel
	if label == nil {
		label = DefaultSkipLabel
	}

	ms := normalize(matches, len(lines))
	ms = append(ms, len(lines)) // sentinel

	var out []model.Record
	last := -1
	matched := false
	for _, m := range ms {
		windowStart := 0
		if matched {
			windowStart = min(m, last+radius+1)
			for i := last + 1; i < windowStart; i++ {
				out = append(out, plainLine(lines, i))
			}
		}

		r := radius
		if m == len(lines) && matched {
			r = 0
		}

		skip := m - windowStart - r
		switch {
		case skip > 1:
			out = append(out, model.Skip{
				Count: skip,
				Start: windowStart,
				End:   m - r,
				Label: label(skip),
			})
		case skip == 1:
			// A one-line gap is noisier as a marker than as the line itself.
			out = append(out, plainLine(lines, windowStart))
		}

		for i := max(windowStart, m-r); i < m; i++ {
			out = append(out, plainLine(lines, i))
		}

		if m == len(lines) {
			break
		}
		out = append(out, highlightLine(lines, m, opts.Matcher))
		last = m
		matched = true
	}
	return out
}

// normalize sorts matches ascending, drops duplicates and out-of-range
// indices.
func normalize(matches []int, n int) []int {
	ms := make([]int, 0, len(matches))
	for _, m := range matches {
		if m >= 0 && m < n {
			ms = append(ms, m)
		}
	}
	sort.Ints(ms)
	out := ms[:0]
	for i, m := range ms {
		if i == 0 || m != ms[i-1] {
			out = append(out, m)
		}
	}
	return out
}

func plainLine(lines []string, i int) model.Line {
	return model.Line{Number: i, Text: lines[i]}
}

func highlightLine(lines []string, i int, matcher *regexp.Regexp) model.Line {
	rec := model.Line{Number: i, Text: lines[i], Highlighted: true}
	if matcher == nil {
		return rec
	}
	for _, loc := range matcher.FindAllStringIndex(lines[i], -1) {
		rec.Spans = append(rec.Spans, model.Span{Start: loc[0], End: loc[1]})
	}
	return rec
}
