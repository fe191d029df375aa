// Package server exposes denmark evaluations over HTTP.
//
// Routes:
//
//	GET  /health       liveness and version
//	GET  /v1/plugins   plugin catalogue (?enable=..&disable=..)
//	GET  /v1/evaluate  evaluate a module (?ecosystem=..&module=..&enable=..&disable=..)
//	POST /v1/evaluate  same, with a JSON pipeline.Options body
//	GET  /metrics      Prometheus metrics, when enabled
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/binford2k/denmark/pkg/pipeline"
)

// DefaultEvaluateTimeout bounds a single evaluation request.
const DefaultEvaluateTimeout = 2 * time.Minute

// Metrics is the surface the server needs from a metrics backend.
type Metrics interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
}

// serverConfig holds internal HTTP server configuration
type serverConfig struct {
	addr            string
	evaluateTimeout time.Duration
	metrics         Metrics
	logger          *log.Logger
}

// Option is a functional option for Server configuration
type Option func(*serverConfig)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(c *serverConfig) { c.addr = addr }
}

// WithEvaluateTimeout bounds each evaluation request.
func WithEvaluateTimeout(d time.Duration) Option {
	return func(c *serverConfig) {
		if d > 0 {
			c.evaluateTimeout = d
		}
	}
}

// WithMetrics instruments requests and serves /metrics.
func WithMetrics(m Metrics) Option {
	return func(c *serverConfig) { c.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Server is the denmark HTTP API.
type Server struct {
	*http.Server
}

// NewServer builds the router around runner.
func NewServer(runner *pipeline.Runner, opts ...Option) *Server {
	cfg := &serverConfig{
		addr:            "localhost:8080",
		evaluateTimeout: DefaultEvaluateTimeout,
		logger:          log.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(loggingMiddleware(cfg.logger))
	if cfg.metrics != nil {
		router.Use(cfg.metrics.Middleware)
	}
	router.Use(middleware.Recoverer)

	h := &handlers{runner: runner, timeout: cfg.evaluateTimeout, logger: cfg.logger}
	router.Get("/health", h.health)
	router.Route("/v1", func(r chi.Router) {
		r.Get("/plugins", h.plugins)
		r.Get("/evaluate", h.evaluateQuery)
		r.Post("/evaluate", h.evaluateJSON)
	})
	if cfg.metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.metrics.Handler())
	}

	return &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func loggingMiddleware(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration", time.Since(start).Round(time.Millisecond),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
