// Package output defines how a digest becomes one flat string for a
// destination surface (HTML fragment, ANSI terminal).
package output

import "github.com/crimson-sun/lantern/internal/model"

// Renderer turns a digest's record sequence into one string. Implementations
// must escape record text for their surface themselves; record text arrives
// raw.
type Renderer interface {
	Render(d model.Digest) (string, error)
}
