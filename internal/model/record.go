package model

// Record is one element of a digest: either a Line or a Skip.
type Record interface {
	record()
}

// Span marks a half-open byte range [Start, End) within a line's text that
// hit a highlight word.
type Span struct {
	Start int
	End   int
}

// Line is a literal log line carried into the digest.
type Line struct {
	Number      int    // zero-based index in the split log buffer
	Text        string // raw line text, unescaped
	Highlighted bool
	Spans       []Span // keyword hits, set only on highlighted lines
}

// Skip is a synthetic marker replacing a run of elided lines.
type Skip struct {
	Count int    // number of lines elided
	Start int    // first elided line index
	End   int    // one past the last elided line index
	Label string // human-readable marker text
}

func (Line) record() {}
func (Skip) record() {}
