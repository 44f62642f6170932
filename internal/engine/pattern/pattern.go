// Package pattern holds the fixed regular expressions the digest pipeline
// classifies and extracts with. Everything here is a pure function of its
// input; compiled patterns are shared read-only.
package pattern

import (
	"regexp"
	"strings"
)

// DefaultWords is the stock highlight keyword list applied when no filter
// narrows it.
var DefaultWords = []string{
	"build timed out", "error", "fail", "failed", "fatal", "undefined", "panic:",
}

// defaultError matches the default keywords at a word boundary or directly
// after an "m", which tolerates ANSI color prefixes like "\x1b[0;31mFAILED".
// "panic:" is anchored separately because its trailing colon defeats \b.
var defaultError = regexp.MustCompile(
	`(?i)(?:(?:\b|m)(?:build timed out|error|fail|failed|fatal|undefined)\b|panic:)`)

// DefaultErrorMatcher returns the matcher for the stock error keywords.
func DefaultErrorMatcher() *regexp.Regexp {
	return defaultError
}

// WordMatcher returns a case-insensitive matcher for word, anchored at word
// boundaries where the word's own edges allow it.
func WordMatcher(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + boundaryQuote(word))
}

// CombinedMatcher returns one alternation matching any of words, each
// boundary-anchored like WordMatcher.
func CombinedMatcher(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = boundaryQuote(w)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

// boundaryQuote escapes word and adds \b anchors on the sides that start or
// end with a word character. RE2's \b never matches next to characters like
// ":" or "-", so anchoring those sides would make the word unmatchable.
func boundaryQuote(word string) string {
	quoted := regexp.QuoteMeta(word)
	if word == "" {
		return quoted
	}
	if isWordByte(word[0]) {
		quoted = `\b` + quoted
	}
	if isWordByte(word[len(word)-1]) {
		quoted += `\b`
	}
	return quoted
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

const objRefToken = "ObjectReference{"

// ObjectReference returns the brace-delimited key:value blob of the first
// object-reference token on the line, without the outer braces. Brace depth
// is tracked because values like FieldPath:"spec.containers{web}" nest a
// brace pair inside the blob. An unterminated blob is not a match.
func ObjectReference(line string) (string, bool) {
	i := strings.Index(line, objRefToken)
	if i < 0 {
		return "", false
	}
	start := i + len(objRefToken)
	depth := 1
	for j := start; j < len(line); j++ {
		switch line[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return line[start:j], true
			}
		}
	}
	return "", false
}

var containerIDRE = regexp.MustCompile(
	`(?i)container_?id(?:=|:)\s*\\?"?(?:docker://)?([0-9a-f]{8,64})`)

// ContainerID returns the first container-ID token on the line.
func ContainerID(line string) (string, bool) {
	m := containerIDRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Two timestamp shapes appear in CI logs: klog's "MMDD HH:MM:SS.ffffff"
// (optionally preceded by a severity letter) and ISO-8601-like stamps.
var (
	klogTimeRE = regexp.MustCompile(`(?:^|\s)[IWEF]?(\d{4} \d{2}:\d{2}:\d{2}\.\d+)`)
	isoTimeRE  = regexp.MustCompile(
		`(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)`)
)

// Timestamp returns the first recognized timestamp on the line.
func Timestamp(line string) (string, bool) {
	if m := klogTimeRE.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := isoTimeRE.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// NormalizeTimestamp strips separators from a timestamp so two stamps of the
// same shape compare lexically.
func NormalizeTimestamp(ts string) string {
	var b strings.Builder
	b.Grow(len(ts))
	for i := 0; i < len(ts); i++ {
		if ts[i] >= '0' && ts[i] <= '9' {
			b.WriteByte(ts[i])
		}
	}
	return b.String()
}
