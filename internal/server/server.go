// Package server exposes the digest over HTTP: one endpoint returning the
// rendered HTML fragment for a log, plus a health check. Everything around it
// (auth, templating, caching) belongs to the embedding dashboard, not here.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crimson-sun/lantern/internal/engine"
	"github.com/crimson-sun/lantern/internal/engine/objref"
	"github.com/crimson-sun/lantern/internal/fetch"
	"github.com/crimson-sun/lantern/internal/model"
	"github.com/crimson-sun/lantern/internal/output"
)

// Server serves digests for logs under a root directory or behind URLs.
type Server struct {
	router   *gin.Engine
	engine   *engine.Engine
	renderer output.Renderer
	fetcher  *fetch.Client
	root     string
	log      *slog.Logger
}

// New creates a Server. root is the directory local log paths resolve under;
// fetcher may be nil to disallow URL sources.
func New(eng *engine.Engine, renderer output.Renderer, fetcher *fetch.Client, root string, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		router:   router,
		engine:   eng,
		renderer: renderer,
		fetcher:  fetcher,
		root:     root,
		log:      log,
	}
	router.GET("/healthz", s.handleHealth)
	router.GET("/digest", s.handleDigest)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("lantern server listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDigest(c *gin.Context) {
	src := c.Query("src")
	if src == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing src parameter"})
		return
	}

	data, err := s.readSource(c, src)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, errOutsideRoot) {
			status = http.StatusNotFound
		}
		s.log.Warn("digest source unavailable", "src", src, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	digest, err := s.engine.Digest(data, requestFromQuery(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	body, err := s.renderer.Render(digest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// requestFromQuery builds the digest request from query parameters. A filter
// param with a value both enables the filter and seeds the object-reference
// record (caller values win the merge); a bare param enables resolution from
// the log.
func requestFromQuery(c *gin.Context) engine.Request {
	q := c.Request.URL.Query()
	req := engine.Request{Filters: model.FilterSet{Pod: q.Get("pod")}}
	seed := objref.Record{}
	for param, key := range map[string]string{
		"uid":       "UID",
		"namespace": "Namespace",
		"cid":       "ContainerID",
	} {
		if !q.Has(param) {
			continue
		}
		if v := q.Get(param); v != "" {
			seed[key] = v
			setFilter(&req.Filters, key, v)
		} else {
			setFilter(&req.Filters, key, "resolve")
		}
	}
	if len(seed) > 0 {
		req.Seed = seed
	}
	return req
}

func setFilter(f *model.FilterSet, key, val string) {
	switch key {
	case "UID":
		f.UID = val
	case "Namespace":
		f.Namespace = val
	case "ContainerID":
		f.ContainerID = val
	}
}

var errOutsideRoot = errors.New("path escapes log root")

func (s *Server) readSource(c *gin.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if s.fetcher == nil {
			return nil, errors.New("remote sources disabled")
		}
		return s.fetcher.Get(c.Request.Context(), src)
	}

	path := filepath.Join(s.root, filepath.Clean("/"+src))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %q", errOutsideRoot, src)
	}
	return os.ReadFile(path)
}
