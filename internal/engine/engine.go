// Package engine orchestrates the digest pipeline: decode → truncate →
// classify → render. One Engine is safe for concurrent use; every invocation
// is pure with respect to its inputs.
package engine

import (
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/crimson-sun/lantern/internal/engine/classify"
	"github.com/crimson-sun/lantern/internal/engine/objref"
	"github.com/crimson-sun/lantern/internal/engine/pattern"
	"github.com/crimson-sun/lantern/internal/engine/truncate"
	"github.com/crimson-sun/lantern/internal/engine/window"
	"github.com/crimson-sun/lantern/internal/model"
)

// DefaultBufferLimit is the byte budget for one log buffer before the
// truncator excises the middle.
const DefaultBufferLimit = 4 << 20

// Config holds the engine's rendering policy. Build it from DefaultConfig and
// override fields; an explicit zero Radius is honored.
type Config struct {
	BufferLimit   int
	Radius        int
	MaxHighlights int
	Strict        bool // propagate malformed object-reference lines
	Logger        *slog.Logger
}

// DefaultConfig returns the stock policy.
func DefaultConfig() Config {
	return Config{
		BufferLimit:   DefaultBufferLimit,
		Radius:        window.DefaultRadius,
		MaxHighlights: window.DefaultMaxHighlights,
	}
}

// Engine produces digests. Create once, reuse across requests.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// New creates an Engine with the given policy.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{cfg: cfg, log: log}
}

// Request carries the per-digest inputs beside the log bytes.
type Request struct {
	Filters   model.FilterSet
	Seed      objref.Record      // cached object-reference values, may be nil
	Matcher   *regexp.Regexp     // overrides the default error matcher
	SkipLabel func(n int) string // overrides the default skip label
}

// Digest runs the full pipeline over raw log bytes and returns the ordered
// record sequence.
func (e *Engine) Digest(data []byte, req Request) (model.Digest, error) {
	bounded, elided := truncate.Truncate(data, e.cfg.BufferLimit)
	if elided > 0 {
		e.log.Warn("log buffer truncated",
			"original_bytes", len(data),
			"elided_bytes", elided,
			"limit", e.cfg.BufferLimit)
	}

	lines := strings.Split(decodeText(bounded), "\n")

	res, err := classify.Classify(lines, classify.Options{
		Filters: req.Filters,
		Seed:    req.Seed,
		Matcher: req.Matcher,
		Strict:  e.cfg.Strict,
	})
	if err != nil {
		return model.Digest{}, err
	}

	records := window.Render(lines, res.Matches, window.Options{
		Radius:        e.cfg.Radius,
		MaxHighlights: e.cfg.MaxHighlights,
		Matcher:       pattern.CombinedMatcher(res.HighlightWords),
		SkipLabel:     req.SkipLabel,
	})

	return model.Digest{
		Records:        records,
		HighlightWords: res.HighlightWords,
		ObjRef:         res.ObjRef,
		TotalLines:     len(lines),
		ElidedBytes:    elided,
	}, nil
}

// decodeText decodes raw log bytes to text. UTF-16 with a BOM (Windows build
// agents) is converted; anything else is treated as UTF-8 with ill-formed
// sequences replaced, never rejected.
func decodeText(data []byte) string {
	t := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
