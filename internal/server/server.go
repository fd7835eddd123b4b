// Package server exposes the run's Prometheus metrics over HTTP for the
// lifetime of a run. The server is optional and only started when a
// metrics address is configured.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ozflux/fluxrun/internal/logging"
)

// Timeouts bounding slow or stalled clients.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves the /metrics endpoint on a configured address.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

// New builds a Server scraping the given registry.
func New(addr string, reg *prometheus.Registry, logger logging.Logger) *Server {
	s := &Server{logger: logger}

	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", securityHeaders(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			logger.Info("rejected metrics request",
				logging.String("method", r.Method),
				logging.String("remote", r.RemoteAddr))
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		metricsHandler.ServeHTTP(w, r)
	}))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s
}

// Start serves in a background goroutine. Errors other than a clean
// shutdown are logged, not returned; a failed metrics listener must not
// take the run down with it.
func (s *Server) Start() {
	s.logger.Info("metrics server listening", logging.String("addr", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", err)
		}
	}()
}

// Shutdown drains in-flight scrapes and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// securityHeaders sets conservative response headers on every reply.
func securityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next(w, r)
	}
}
