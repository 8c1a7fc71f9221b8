// Package api exposes the internal HTTP surface that forum services call.
//
// Endpoints:
//
//	GET  /health                     liveness probe
//	GET  /ready                      readiness probe (pings the database)
//	POST /api/internal/rag           retrieval-only context for external prompts
//	POST /api/internal/ask/stream    full RAG answer streamed as SSE
//	POST /api/internal/moderation    content gate evaluation
//
// The /api/internal/* routes require a bearer token matching the
// configured internal secret; health probes are unauthenticated.
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: recovery, logging, bearer auth
//   - ratelimit.go: per-IP token bucket limiting
//   - health.go: /health and /ready
//   - query.go: RAG context and streaming answer endpoints
//   - moderation.go: moderation gate endpoint
//   - response.go: JSON response helpers
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bharatvarsh/bhoomi/internal/log"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = ":8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	// This prevents Slowloris attacks (CWE-400).
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Streaming answers need headroom over the usual request cycle.
	WriteTimeout = 120 * time.Second

	// IdleTimeout is the maximum wait for the next keep-alive request.
	IdleTimeout = 120 * time.Second
)

// ServerConfig wires the server's handlers and middleware.
type ServerConfig struct {
	Pinger         Pinger
	Pipeline       QueryPipeline
	Gate           ModerationGate
	Posts          PostRecorder
	InternalSecret string
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         log.Logger
}

// Server is the internal HTTP server.
type Server struct {
	mux    *http.ServeMux
	cfg    ServerConfig
	logger log.Logger
}

// NewServer creates a server with all routes registered.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	mux := http.NewServeMux()

	health := NewHealthHandler(cfg.Pinger, cfg.Logger)
	health.RegisterRoutes(mux)

	// Internal routes share auth and rate limiting; probes bypass both.
	internal := http.NewServeMux()
	NewQueryHandler(cfg.Pipeline, cfg.Logger).RegisterRoutes(internal)
	NewModerationHandler(cfg.Gate, cfg.Posts, cfg.Logger).RegisterRoutes(internal)

	protected := chain(internal,
		authMiddleware(cfg.InternalSecret, cfg.Logger),
		rateLimitMiddleware(newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), cfg.Logger),
	)
	mux.Handle("/api/internal/", protected)

	return &Server{mux: mux, cfg: cfg, logger: cfg.Logger}, nil
}

// Handler returns the HTTP handler with outer middleware applied.
// Middleware order: recovery -> logging -> handler.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware(s.logger), loggingMiddleware(s.logger))
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
