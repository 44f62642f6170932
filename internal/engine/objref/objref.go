// Package objref extracts the structured object-reference record that
// container orchestrators stamp into log lines (namespace, UID, name,
// container ID) and merges it with caller-supplied values.
package objref

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crimson-sun/lantern/internal/engine/pattern"
)

// Record maps object-reference keys (Name, Namespace, UID, ContainerID, ...)
// to their values. An absent or empty value means unknown.
type Record map[string]string

// ParseError reports a structurally matched but syntactically malformed
// object-reference line. Line is the zero-based index of the offender.
type ParseError struct {
	Line int
	Blob string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("objref: malformed object reference on line %d: %q", e.Line, e.Blob)
}

// pairRE matches one key:value pair. Values are either quoted (with the
// orchestrator's backslash-escaped-quote convention) or bare up to a comma.
var pairRE = regexp.MustCompile(`(\w+)\s*:\s*(?:\\?"((?:[^"\\]|\\.)*)\\?"|([^,]*))(?:,\s*|$)`)

// Extract scans lines top to bottom and returns the merged object-reference
// record. The first line matching podMatcher (if non-nil) sets foundPod.
// Independently of pod matching, the first recognizable container-ID token
// fills ContainerID unless the seed already carries one. The first
// object-reference blob is parsed key by key; seed values win over parsed
// values on overlapping keys. The seed itself is never mutated.
//
// A blob that matches structurally but fails to parse is a *ParseError when
// strict is set; otherwise the line is skipped and scanning continues.
func Extract(lines []string, podMatcher *regexp.Regexp, seed Record, strict bool) (Record, bool, error) {
	merged := make(Record, len(seed)+4)
	for k, v := range seed {
		merged[k] = v
	}

	foundPod := false
	haveRef := false
	for n, line := range lines {
		if !foundPod && podMatcher != nil && podMatcher.MatchString(line) {
			foundPod = true
		}
		if merged["ContainerID"] == "" {
			if id, ok := pattern.ContainerID(line); ok {
				merged["ContainerID"] = id
			}
		}
		if haveRef {
			continue
		}
		blob, ok := pattern.ObjectReference(line)
		if !ok {
			continue
		}
		parsed, perr := parseBlob(blob)
		if perr != nil {
			if strict {
				return nil, foundPod, &ParseError{Line: n, Blob: blob}
			}
			continue
		}
		for k, v := range parsed {
			if merged[k] == "" {
				merged[k] = v
			}
		}
		haveRef = true
	}
	return merged, foundPod, nil
}

// parseBlob splits a brace-stripped object-reference blob into key:value
// pairs. The pairs must tile the blob exactly; any gap means the line was
// garbled mid-write and the whole blob is rejected.
func parseBlob(blob string) (Record, error) {
	blob = strings.TrimSpace(blob)
	rec := make(Record)
	if blob == "" {
		return rec, nil
	}
	pos := 0
	for _, m := range pairRE.FindAllStringSubmatchIndex(blob, -1) {
		if m[0] != pos {
			return nil, fmt.Errorf("unparsed input at offset %d", pos)
		}
		key := blob[m[2]:m[3]]
		var val string
		if m[4] >= 0 {
			val = unescape(blob[m[4]:m[5]])
		} else if m[6] >= 0 {
			val = strings.TrimSpace(blob[m[6]:m[7]])
		}
		rec[key] = val
		pos = m[1]
	}
	if pos != len(blob) {
		return nil, fmt.Errorf("unparsed input at offset %d", pos)
	}
	return rec, nil
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}
