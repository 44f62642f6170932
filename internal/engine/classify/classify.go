// Package classify selects the interesting lines of a log buffer: the ones
// matching the error keywords, or, when structural filters are active, the
// ones mentioning the values resolved from the log's object reference.
package classify

import (
	"regexp"

	"github.com/crimson-sun/lantern/internal/engine/objref"
	"github.com/crimson-sun/lantern/internal/engine/pattern"
	"github.com/crimson-sun/lantern/internal/model"
)

// Options configures one classification pass.
type Options struct {
	Filters model.FilterSet
	Seed    objref.Record  // cached object-reference values from a prior pass
	Matcher *regexp.Regexp // error matcher; nil means pattern.DefaultErrorMatcher
	Strict  bool           // propagate malformed object-reference lines
}

// Result is the outcome of a classification pass.
type Result struct {
	Matches        []int    // ascending line indices, no duplicates
	HighlightWords []string // effective keyword list after filter narrowing
	ObjRef         objref.Record
	FoundPod       bool
}

// Classify scans lines and returns the matched indices together with the
// effective highlight words. Without structural filters the error matcher
// decides; with any of UID/Namespace/ContainerID set, the object reference is
// extracted first and each active filter's resolved value joins the keyword
// list (the pod name itself never comes from the reference).
func Classify(lines []string, opts Options) (Result, error) {
	words := make([]string, len(pattern.DefaultWords))
	copy(words, pattern.DefaultWords)
	if opts.Filters.Pod != "" {
		words = []string{opts.Filters.Pod}
	}

	if !opts.Filters.Structural() {
		matcher := opts.Matcher
		if matcher == nil {
			matcher = pattern.DefaultErrorMatcher()
		}
		return Result{
			Matches:        matchAll(lines, matcher),
			HighlightWords: words,
			ObjRef:         opts.Seed,
		}, nil
	}

	var podMatcher *regexp.Regexp
	if opts.Filters.Pod != "" {
		podMatcher = pattern.WordMatcher(opts.Filters.Pod)
	}
	ref, foundPod, err := objref.Extract(lines, podMatcher, opts.Seed, opts.Strict)
	if err != nil {
		return Result{}, err
	}

	for _, key := range structuralKeys(opts.Filters) {
		if v := ref[key]; v != "" {
			words = append(words, v)
		}
	}

	return Result{
		Matches:        matchAll(lines, pattern.CombinedMatcher(words)),
		HighlightWords: words,
		ObjRef:         ref,
		FoundPod:       foundPod,
	}, nil
}

// structuralKeys returns the names of the enabled structural filters, in a
// fixed order so the resulting keyword list is deterministic.
func structuralKeys(f model.FilterSet) []string {
	var keys []string
	if f.UID != "" {
		keys = append(keys, "UID")
	}
	if f.Namespace != "" {
		keys = append(keys, "Namespace")
	}
	if f.ContainerID != "" {
		keys = append(keys, "ContainerID")
	}
	return keys
}

func matchAll(lines []string, re *regexp.Regexp) []int {
	var matches []int
	for n, line := range lines {
		if re.MatchString(line) {
			matches = append(matches, n)
		}
	}
	return matches
}
