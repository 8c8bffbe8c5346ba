package server

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"nba-season-engine/internal/config"
	"nba-season-engine/internal/metrics"
	"nba-season-engine/internal/testutil"
)

type stubHTTPServer struct {
	mu        sync.Mutex
	done      chan struct{}
	shutdowns int
}

func newStubHTTPServer() *stubHTTPServer {
	return &stubHTTPServer{done: make(chan struct{})}
}

func (s *stubHTTPServer) ListenAndServe() error {
	<-s.done
	return http.ErrServerClosed
}

func (s *stubHTTPServer) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdowns == 0 {
		close(s.done)
	}
	s.shutdowns++
	return nil
}

func (s *stubHTTPServer) Addr() string          { return ":0" }
func (s *stubHTTPServer) Handler() http.Handler { return nil }

func (s *stubHTTPServer) shutdownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdowns
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	httpSrv := newStubHTTPServer()
	metricsSrv := newStubHTTPServer()
	srv := newServerWithDeps(config.Config{Port: "0"}, testutil.SilentLogger(), httpSrv, metricsSrv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}

	if httpSrv.shutdownCount() != 1 {
		t.Fatalf("expected one http shutdown, got %d", httpSrv.shutdownCount())
	}
	if metricsSrv.shutdownCount() != 1 {
		t.Fatalf("expected one metrics shutdown, got %d", metricsSrv.shutdownCount())
	}
}

func TestNewWiresTheFullStack(t *testing.T) {
	original := metricsSetup
	metricsSetup = func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}
	defer func() { metricsSetup = original }()

	cfg := config.Config{Port: "0", RecentScoreLimit: 10}
	cfg.League.BaseURL = "http://localhost:1"
	cfg.League.Timeout = time.Second
	srv := New(cfg, testutil.SilentLogger())

	if srv.Handler() == nil {
		t.Fatal("expected a wired HTTP handler")
	}
	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(srv.Handler(), http.MethodGet, "/api/status", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}
