package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ozflux/fluxrun/internal/logging"
	"github.com/ozflux/fluxrun/internal/metrics"
)

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}

func newTestServer() *Server {
	reg := prometheus.NewRegistry()
	m := metrics.NewJobMetrics(reg)
	m.JobRegistered(2)
	m.ObserveProgress(0, 0.5, 0.5)
	return New("localhost:0", reg, &testLogger{})
}

// TestMetricsEndpoint verifies GET /metrics returns the run's collectors.
func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rec := httptest.NewRecorder()

	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "fluxrun_overall_progress") {
		t.Error("response should contain fluxrun_overall_progress")
	}
	if !strings.Contains(body, "fluxrun_jobs_registered_total") {
		t.Error("response should contain fluxrun_jobs_registered_total")
	}
}

// TestMetricsEndpoint_MethodNotAllowed verifies non-GET methods are rejected.
func TestMetricsEndpoint_MethodNotAllowed(t *testing.T) {
	s := newTestServer()

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/metrics", http.NoBody)
			rec := httptest.NewRecorder()

			s.httpServer.Handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

// TestSecurityHeaders verifies conservative headers are set on every reply.
func TestSecurityHeaders(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rec := httptest.NewRecorder()

	s.httpServer.Handler.ServeHTTP(rec, req)

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := rec.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

// TestServerTimeouts verifies the hardened server timeouts.
func TestServerTimeouts(t *testing.T) {
	s := newTestServer()

	if s.httpServer.ReadHeaderTimeout != readHeaderTimeout {
		t.Errorf("ReadHeaderTimeout = %v, want %v", s.httpServer.ReadHeaderTimeout, readHeaderTimeout)
	}
	if s.httpServer.ReadTimeout != readTimeout {
		t.Errorf("ReadTimeout = %v, want %v", s.httpServer.ReadTimeout, readTimeout)
	}
	if s.httpServer.WriteTimeout != writeTimeout {
		t.Errorf("WriteTimeout = %v, want %v", s.httpServer.WriteTimeout, writeTimeout)
	}
	if s.httpServer.IdleTimeout != idleTimeout {
		t.Errorf("IdleTimeout = %v, want %v", s.httpServer.IdleTimeout, idleTimeout)
	}
}
