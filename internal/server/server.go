// Package server exposes the explorer over HTTP.
//
// The browser owns layout and drawing. The server owns the graph, per-client
// view state and every decision the core makes: which node is selected,
// which elements are highlighted, what color each element is drawn in and
// where the camera should move after a search.
//
// Each client opens a session and posts interaction events to it. The
// session stores a selection.Snapshot; a request restores a controller from
// it, applies the event and saves the new snapshot. Requests that touch the
// graph or a controller are serialized by a single mutex, which keeps the
// core single-threaded.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kgview/pkg/cache"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/session"
	"github.com/matzehuels/kgview/pkg/view"
)

// maxBodyBytes bounds request bodies. Layout updates for large graphs are
// the biggest payload.
const maxBodyBytes = 32 << 20

// Option configures a Server.
type Option func(*Server)

// WithSessions sets the session backend. The default is in memory.
func WithSessions(s session.Store) Option { return func(srv *Server) { srv.sessions = s } }

// WithSessionTTL sets how long an idle session lives.
func WithSessionTTL(d time.Duration) Option { return func(srv *Server) { srv.sessionTTL = d } }

// WithCache sets the snapshot cache and its keyer.
func WithCache(c cache.Cache, k cache.Keyer) Option {
	return func(srv *Server) {
		srv.cache = c
		srv.keyer = k
	}
}

// WithResolver sets the highlight palette and label thresholds.
func WithResolver(r view.Resolver) Option { return func(srv *Server) { srv.resolver = r } }

// WithCamera sets the camera move returned after a successful search.
func WithCamera(c view.CameraSettings) Option { return func(srv *Server) { srv.camera = c } }

// WithLogger sets the request and diagnostics logger.
func WithLogger(l *log.Logger) Option { return func(srv *Server) { srv.logger = l } }

// WithDataset names the dataset that sessions are opened against.
func WithDataset(name string) Option { return func(srv *Server) { srv.dataset = name } }

// Server is the HTTP adapter.
type Server struct {
	store      *graph.Store
	sessions   session.Store
	sessionTTL time.Duration
	cache      cache.Cache
	keyer      cache.Keyer
	resolver   view.Resolver
	camera     view.CameraSettings
	logger     *log.Logger
	dataset    string

	// mu serializes graph mutation and controller use.
	mu        sync.Mutex
	graphHash string
	hashedFor *graph.Graph

	router chi.Router
}

// New builds a server over store. The store may still be loading; graph
// endpoints answer 503 until it is loaded.
func New(store *graph.Store, opts ...Option) *Server {
	s := &Server{
		store:      store,
		sessionTTL: session.DefaultTTL,
		resolver:   view.NewResolver(),
		camera:     view.DefaultCameraSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	if s.cache == nil {
		s.cache = cache.NullCache{}
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Put("/layout", s.handleLayout)
		r.Get("/labels", s.handleLabels)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Get("/view", s.handleView)
			r.Get("/suggest", s.handleSuggest)
			r.Post("/events", s.handleEvent)
			r.Get("/snapshot.svg", s.handleSnapshot)
		})
	})
	return r
}

// logRequests logs one line per request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start).Round(time.Microsecond),
			"req", middleware.GetReqID(r.Context()))
	})
}

// CleanupSessions removes expired sessions every interval until ctx is done.
func (s *Server) CleanupSessions(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
