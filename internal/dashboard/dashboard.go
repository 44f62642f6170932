// Package dashboard maps a log's storage path to the dashboard tab that
// displays it, using a test-grid style binary config blob.
package dashboard

import (
	"fmt"
	"strings"
	"sync"

	"github.com/crimson-sun/lantern/internal/protolite"
)

// configSchema covers only the fields the resolver reads: test groups carry a
// name and a storage-path prefix ("query"); dashboards carry a name and tabs
// that reference groups.
var configSchema = &protolite.Node{Fields: map[int32]protolite.Node{
	1: {Name: "test_groups", Fields: map[int32]protolite.Node{
		1: protolite.Named("name"),
		2: protolite.Named("query"),
	}},
	2: {Name: "dashboards", Fields: map[int32]protolite.Node{
		1: {Name: "dashboard_tab", Fields: map[int32]protolite.Node{
			1: protolite.Named("name"),
			2: protolite.Named("test_group_name"),
		}},
		2: protolite.Named("name"),
	}},
}}

// ErrUnknownPath reports a storage path no configured test group claims.
var ErrUnknownPath = fmt.Errorf("dashboard: no test group for path")

type tabRef struct {
	dashboard string
	tab       string
	group     string
}

// Provider resolves storage paths against one config blob, decoding it at
// most once. Pass the Provider to call sites explicitly; a fresh Provider per
// test replaces any global-reset dance. Safe for concurrent use; a racing
// first call only costs a redundant wait, never a redundant decode.
type Provider struct {
	blob []byte

	once    sync.Once
	err     error
	queries map[string]string // group name -> storage-path prefix
	tabs    []tabRef
}

// NewProvider creates a Provider over a raw config blob. The blob is not
// decoded until first use.
func NewProvider(blob []byte) *Provider {
	return &Provider{blob: blob}
}

func (p *Provider) load() {
	tree, err := protolite.Decode(p.blob, configSchema)
	if err != nil {
		p.err = fmt.Errorf("dashboard: decoding config: %w", err)
		return
	}
	p.queries = make(map[string]string)
	for _, group := range tree.Trees("test_groups") {
		name := group.FirstString("name")
		if name == "" {
			continue
		}
		p.queries[name] = strings.Trim(group.FirstString("query"), "/")
	}
	for _, dash := range tree.Trees("dashboards") {
		dashName := dash.FirstString("name")
		for _, tab := range dash.Trees("dashboard_tab") {
			p.tabs = append(p.tabs, tabRef{
				dashboard: dashName,
				tab:       tab.FirstString("name"),
				group:     tab.FirstString("test_group_name"),
			})
		}
	}
}

// Resolve returns the "dashboard#tab" identity for a log storage path. The
// path's bucket prefix (gs:// or a leading slash) is ignored. Paths outside
// every configured test group return ErrUnknownPath.
func (p *Provider) Resolve(path string) (string, error) {
	p.once.Do(p.load)
	if p.err != nil {
		return "", p.err
	}

	path = strings.TrimPrefix(path, "gs://")
	path = strings.Trim(path, "/")

	group := ""
	for name, prefix := range p.queries {
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			group = name
			break
		}
	}
	if group == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownPath, path)
	}

	for _, ref := range p.tabs {
		if ref.group == group {
			return ref.dashboard + "#" + ref.tab, nil
		}
	}
	return "", fmt.Errorf("%w: group %q has no tab", ErrUnknownPath, group)
}
