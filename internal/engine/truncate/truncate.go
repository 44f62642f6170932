// Package truncate bounds an oversized log buffer by excising its middle
// while preserving the buffer's newline count, so line-index arithmetic
// downstream stays valid.
package truncate

import "bytes"

// Truncate returns data unchanged when it fits within limit bytes. Otherwise
// it keeps the first and last limit/2 bytes verbatim and replaces the excised
// middle with one newline per newline removed. The second return value is the
// number of content bytes elided (0 when untouched).
//
// The operation is idempotent: re-truncating a truncated buffer reproduces it,
// because the all-newline middle maps back onto itself.
func Truncate(data []byte, limit int) ([]byte, int) {
	if limit <= 0 || len(data) <= limit {
		return data, 0
	}
	half := limit / 2
	middle := data[half : len(data)-half]
	removed := bytes.Count(middle, []byte{'\n'})

	out := make([]byte, 0, half*2+removed)
	out = append(out, data[:half]...)
	for i := 0; i < removed; i++ {
		out = append(out, '\n')
	}
	out = append(out, data[len(data)-half:]...)
	return out, len(middle) - removed
}
