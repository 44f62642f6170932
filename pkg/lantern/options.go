package lantern

import (
	"log/slog"
	"regexp"

	"github.com/crimson-sun/lantern/internal/engine"
	"github.com/crimson-sun/lantern/internal/engine/objref"
	"github.com/crimson-sun/lantern/internal/engine/window"
	"github.com/crimson-sun/lantern/internal/model"
)

type options struct {
	bufferLimit   int
	radius        int
	maxHighlights int
	strict        bool
	logger        *slog.Logger
	filters       model.FilterSet
	seed          objref.Record
	matcher       *regexp.Regexp
	skipLabel     func(n int) string
}

// Option configures a Lantern instance.
type Option func(*options)

// WithRadius sets how many verbatim lines are kept on each side of a match.
// Zero is legitimate and keeps only the matched lines. Default: 6.
func WithRadius(n int) Option {
	return func(o *options) {
		o.radius = n
	}
}

// WithMaxHighlights sets the match count above which the context radius
// drops to zero, bounding output on logs where nearly every line matches.
// Default: 2000.
func WithMaxHighlights(n int) Option {
	return func(o *options) {
		o.maxHighlights = n
	}
}

// WithBufferLimit sets the byte budget for one log; oversized logs have
// their middle excised before digesting. Default: 4 MiB.
func WithBufferLimit(n int) Option {
	return func(o *options) {
		o.bufferLimit = n
	}
}

// WithStrict makes a malformed object-reference line a digest error instead
// of being skipped.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithPod narrows highlighting to a single pod name instead of the default
// error keywords.
func WithPod(name string) Option {
	return func(o *options) {
		o.filters.Pod = name
	}
}

// WithUID enables the UID structural filter. A non-empty uid is used as-is;
// empty resolves the UID from the log's object-reference line.
func WithUID(uid string) Option {
	return func(o *options) {
		o.filters.UID = "resolve"
		if uid != "" {
			o.filters.UID = uid
			o.seed["UID"] = uid
		}
	}
}

// WithNamespace enables the Namespace structural filter. A non-empty value
// is used as-is; empty resolves it from the log.
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.filters.Namespace = "resolve"
		if ns != "" {
			o.filters.Namespace = ns
			o.seed["Namespace"] = ns
		}
	}
}

// WithContainerID enables the ContainerID structural filter. A non-empty
// value is used as-is; empty resolves it from the log.
func WithContainerID(cid string) Option {
	return func(o *options) {
		o.filters.ContainerID = "resolve"
		if cid != "" {
			o.filters.ContainerID = cid
			o.seed["ContainerID"] = cid
		}
	}
}

// WithMatcher overrides the default error matcher used to pick lines when no
// structural filter is active.
func WithMatcher(re *regexp.Regexp) Option {
	return func(o *options) {
		o.matcher = re
	}
}

// WithSkipLabel overrides the text of skip markers. fn receives the number
// of elided lines.
func WithSkipLabel(fn func(n int) string) Option {
	return func(o *options) {
		o.skipLabel = fn
	}
}

// WithLogger routes the engine's diagnostics (truncation warnings) to log.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

func defaultOptions() options {
	return options{
		bufferLimit:   engine.DefaultBufferLimit,
		radius:        window.DefaultRadius,
		maxHighlights: window.DefaultMaxHighlights,
		seed:          objref.Record{},
	}
}
