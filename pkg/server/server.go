// Package server exposes the floorplan tree over HTTP.
//
// The server owns one canonical design tree and serializes every edit
// against it: reads take a shared lock, mutations take an exclusive
// lock and swap in the rewritten tree. Handlers never mutate nodes in
// place; they go through the rewrite helpers in [floorplan], which
// rebuild the path to the change and share everything else.
//
// The API is the interface for external editing frontends:
//
//	GET    /api/design               current design document
//	GET    /api/layout               flattened rectangles + root footprint
//	GET    /api/nodes/{id}/area      area breakdown for one module
//	GET    /api/nodes/{id}/overlaps  overlap markers, one level
//	POST   /api/nodes/{id}/optimize  recursive compaction (409 on overlap)
//	PATCH  /api/nodes/{id}           partial field update
//	PUT    /api/nodes/{id}           full node replacement
//	POST   /api/nodes/{id}/children  add a child module
//	DELETE /api/nodes/{id}           structural delete
//
// Mutations addressing an unknown ID are no-ops answered with 204: the
// frontend may race a deletion against a pending edit, and a stale edit
// must not fail.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/errors"
	"github.com/floorstack/floorstack/pkg/floorplan"
)

// Server serves one design document over HTTP.
type Server struct {
	mu     sync.RWMutex
	design *design.Design
	cfg    floorplan.TechConfig

	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Defaults to [log.Default].
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a server around the given design. The design's tree is
// normalized once up front; the resolved tech config is fixed for the
// server's lifetime.
func New(d *design.Design, opts ...Option) (*Server, error) {
	if d == nil || d.Top == nil {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "design with a top module is required")
	}
	cfg, err := d.Config()
	if err != nil {
		return nil, err
	}

	canonical := *d
	canonical.Top = floorplan.Normalize(d.Top)
	if err := floorplan.Validate(canonical.Top); err != nil {
		return nil, err
	}

	s := &Server{
		design: &canonical,
		cfg:    cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.hooks)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/design", s.handleGetDesign)
		r.Get("/layout", s.handleGetLayout)

		r.Route("/nodes/{id}", func(r chi.Router) {
			r.Get("/area", s.handleGetArea)
			r.Get("/overlaps", s.handleGetOverlaps)
			r.Post("/optimize", s.handleOptimize)
			r.Patch("/", s.handlePatchNode)
			r.Put("/", s.handlePutNode)
			r.Post("/children", s.handleAddChild)
			r.Delete("/", s.handleDeleteNode)
		})
	})

	return r
}

// Handler returns the server's HTTP handler, for mounting and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// snapshot returns the current design under a read lock. The returned
// pointer must be treated as immutable; mutations build new trees.
func (s *Server) snapshot() *design.Design {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.design
}

// mutate applies one tree rewrite under the exclusive lock and installs
// the result as the canonical tree. It returns the design after the
// rewrite and whether the tree actually changed (the rewrite helpers
// return the original pointer on unknown-ID no-ops).
func (s *Server) mutate(fn func(*floorplan.Node) *floorplan.Node) (*design.Design, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.design.Top)
	if next == s.design.Top {
		return s.design, false
	}
	d := *s.design
	d.Top = floorplan.Normalize(next)
	s.design = &d
	return s.design, true
}
