// Package httpapi serves the pipeline over HTTP with a chi router.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
	"github.com/custodia-labs/docsum/internal/logger"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8000"

// multipartOverhead is allowed on top of the payload limit for form boundaries and headers.
const multipartOverhead = 64 << 10

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("http: pipeline service is required")

// Recorder records per-route request metrics and exposes them for scraping.
type Recorder interface {
	ObserveHTTP(route string, code int, elapsed time.Duration)
	Handler() http.Handler
}

// Config holds the HTTP server dependencies.
type Config struct {
	// Addr is the listen address (default: :8000).
	Addr string

	// Pipeline runs extraction and summarisation (required).
	Pipeline driving.PipelineService

	// MaxUploadBytes bounds request bodies (default: domain.MaxPayloadBytes).
	MaxUploadBytes int64

	// Metrics is optional; /metrics is only mounted when it is set.
	Metrics Recorder
}

// Server is the HTTP driving adapter.
type Server struct {
	addr     string
	pipeline driving.PipelineService
	maxBytes int64
	metrics  Recorder
	router   chi.Router
}

// NewServer builds the router.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Pipeline == nil {
		return nil, ErrMissingPipelineService
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = domain.MaxPayloadBytes
	}

	s := &Server{
		addr:     cfg.Addr,
		pipeline: cfg.Pipeline,
		maxBytes: cfg.MaxUploadBytes,
		metrics:  cfg.Metrics,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Post("/summarize", s.handleSummarise)
	r.Post("/extract", s.handleExtract)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("listening on %s", s.addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// observe logs each request and feeds the metrics recorder.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		logger.Debug("%s %s -> %d in %s", r.Method, route, status, elapsed.Round(time.Millisecond))
		if s.metrics != nil {
			s.metrics.ObserveHTTP(route, status, elapsed)
		}
	})
}
