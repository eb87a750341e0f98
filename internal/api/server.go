// Package api is the HTTP surface a host canvas talks to: mind-map CRUD,
// tree mutations, content injection, layout and rendering.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/pipeline"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 4 << 20

// Server serves the API. Mutations of one server are serialized so that
// concurrent requests against the same document never lose an edit.
type Server struct {
	store   store.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	layout  layout.Options
	maxBody int64

	mu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunner sets the layout and render pipeline.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithLayoutOptions sets the geometry used for layout and render requests.
func WithLayoutOptions(o layout.Options) Option { return func(s *Server) { s.layout = o } }

// WithMaxBodyBytes caps request bodies. Values <= 0 keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a server backed by st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:   st,
		logger:  log.Default(),
		layout:  layout.DefaultOptions(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.health)
	r.Get("/api/strategies", s.strategies)
	r.Post("/api/render.{format}", s.renderSnapshot)

	r.Route("/api/mindmaps", func(r chi.Router) {
		r.Get("/", s.listMindMaps)
		r.Post("/", s.createMindMap)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getMindMap)
			r.Put("/", s.replaceMindMap)
			r.Delete("/", s.deleteMindMap)

			r.Post("/ops", s.applyOp)
			r.Put("/nodes/{nodeID}/content", s.injectContent)

			r.Get("/layout", s.layoutMindMap)
			r.Get("/render.{format}", s.renderMindMap)
		})
	})

	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
