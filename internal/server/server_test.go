package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/lantern/internal/engine"
	"github.com/crimson-sun/lantern/internal/output/html"
)

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	return New(engine.New(engine.DefaultConfig()), html.New(), nil, root, nil)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDigestLocalFile(t *testing.T) {
	root := t.TempDir()
	log := "ok line\nsomething\nerror: broke\ntail line\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "build.log"), []byte(log), 0o644))

	srv := newTestServer(t, root)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/digest?src=build.log", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `<span class="keyword">error</span>`)
	assert.Contains(t, rec.Body.String(), "tail line")
}

func TestDigestMissingSrc(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/digest", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDigestMissingFile(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/digest?src=nope.log", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDigestPathEscape(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "secret.log")
	require.NoError(t, os.WriteFile(outside, []byte("secret\n"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	srv := newTestServer(t, root)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/digest?src=../secret.log", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestDigestRemoteDisabled(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/digest?src=https://example.com/build.log", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDigestStructuralFilter(t *testing.T) {
	root := t.TempDir()
	log := "boot\nline mentioning deadbeef-cafe\nquiet\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "kube.log"), []byte(log), 0o644))

	srv := newTestServer(t, root)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/digest?src=kube.log&pod=pod-a&uid=deadbeef-cafe", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="keyword">deadbeef-cafe</span>`)
}

func TestDigestPodFilter(t *testing.T) {
	root := t.TempDir()
	log := "pod-a started\npod-b started\npod-a error: crash\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "kube.log"), []byte(log), 0o644))

	srv := newTestServer(t, root)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/digest?src=kube.log&pod=pod-a", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="keyword">pod-a</span>`)
}
