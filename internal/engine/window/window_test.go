package window

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/crimson-sun/lantern/internal/model"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func opts(radius int) Options {
	o := DefaultOptions()
	o.Radius = radius
	return o
}

// signature flattens records into a readable form: plain line numbers,
// "H<n>" for highlights, "S<count>" for skips.
func signature(records []model.Record) []string {
	var sig []string
	for _, r := range records {
		switch r := r.(type) {
		case model.Line:
			if r.Highlighted {
				sig = append(sig, fmt.Sprintf("H%d", r.Number))
			} else {
				sig = append(sig, fmt.Sprintf("%d", r.Number))
			}
		case model.Skip:
			sig = append(sig, fmt.Sprintf("S%d", r.Count))
		}
	}
	return sig
}

func assertSignature(t *testing.T, records []model.Record, want ...string) {
	t.Helper()
	got := signature(records)
	if len(got) != len(want) {
		t.Fatalf("signature %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("signature %v, want %v", got, want)
		}
	}
}

func TestRenderSingleMatchMidLog(t *testing.T) {
	// 11 lines, one match at 5, radius 4: everything is shown, the one-line
	// gaps at both edges are emitted verbatim instead of as skip markers.
	records := Render(numberedLines(11), []int{5}, opts(4))
	assertSignature(t, records,
		"0", "1", "2", "3", "4", "H5", "6", "7", "8", "9", "10")
}

func TestRenderLeadingSkip(t *testing.T) {
	// 12 lines, match at 6, radius 4: a two-line skip opens the digest and
	// the trailing one-line gap is suppressed.
	records := Render(numberedLines(12), []int{6}, opts(4))
	assertSignature(t, records,
		"S2", "2", "3", "4", "5", "H6", "7", "8", "9", "10", "11")

	skip := records[0].(model.Skip)
	if skip.Start != 0 || skip.End != 2 {
		t.Fatalf("skip range [%d,%d), want [0,2)", skip.Start, skip.End)
	}
	if skip.Label != "... skipping 2 lines ..." {
		t.Fatalf("unexpected label %q", skip.Label)
	}
}

func TestRenderNoMatchShortPassthrough(t *testing.T) {
	records := Render(numberedLines(4), nil, opts(4))
	assertSignature(t, records, "0", "1", "2", "3")
}

func TestRenderNoMatchLongCollapses(t *testing.T) {
	records := Render(numberedLines(100), nil, opts(4))
	assertSignature(t, records, "S96", "96", "97", "98", "99")
}

func TestRenderSingleLineGapSuppressed(t *testing.T) {
	records := Render(numberedLines(10), []int{0, 6}, opts(2))
	assertSignature(t, records,
		"H0", "1", "2", "3", "4", "5", "H6", "7", "8", "9")
}

func TestRenderOverlappingWindowsMerge(t *testing.T) {
	records := Render(numberedLines(30), []int{5, 8}, opts(4))
	assertSignature(t, records,
		"0", "1", "2", "3", "4", "H5", "6", "7", "H8", "9", "10", "11", "12", "S17")

	// No skip record between the two highlights.
	seenFirst := false
	for _, r := range records {
		if l, ok := r.(model.Line); ok && l.Highlighted {
			if l.Number == 5 {
				seenFirst = true
			}
			if l.Number == 8 {
				break
			}
			continue
		}
		if _, ok := r.(model.Skip); ok && seenFirst {
			t.Fatal("skip record between overlapping windows")
		}
	}
}

func TestRenderTrailingSkipAfterLastMatch(t *testing.T) {
	// Past the last match no leading context is owed at EOF: the whole tail
	// beyond the trailing window collapses.
	records := Render(numberedLines(200), []int{5}, opts(4))
	assertSignature(t, records,
		"0", "1", "2", "3", "4", "H5", "6", "7", "8", "9", "S190")

	skip := records[len(records)-1].(model.Skip)
	if skip.Start != 10 || skip.End != 200 {
		t.Fatalf("skip range [%d,%d), want [10,200)", skip.Start, skip.End)
	}
}

func TestRenderDegradesRadiusOnMatchFlood(t *testing.T) {
	o := opts(3)
	o.MaxHighlights = 2
	records := Render(numberedLines(12), []int{2, 5, 8}, o)
	assertSignature(t, records, "S2", "H2", "S2", "H5", "S2", "H8", "S3")
}

func TestRenderEmptyInput(t *testing.T) {
	if records := Render(nil, nil, DefaultOptions()); len(records) != 0 {
		t.Fatalf("expected no records, got %v", signature(records))
	}
}

func TestRenderNormalizesMatches(t *testing.T) {
	records := Render(numberedLines(11), []int{5, 5, -3, 42}, opts(4))
	assertSignature(t, records,
		"0", "1", "2", "3", "4", "H5", "6", "7", "8", "9", "10")
}

func TestRenderHighlightSpans(t *testing.T) {
	lines := []string{"error-blah"}
	o := opts(4)
	o.Matcher = regexp.MustCompile(`(?i)\berror\b`)
	records := Render(lines, []int{0}, o)

	line := records[0].(model.Line)
	if !line.Highlighted {
		t.Fatal("expected a highlighted line")
	}
	if len(line.Spans) != 1 || line.Spans[0] != (model.Span{Start: 0, End: 5}) {
		t.Fatalf("unexpected spans %v", line.Spans)
	}
}
