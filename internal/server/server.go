// Package server assembles the engine, its stores, the league client, and
// the HTTP surface into one runnable unit.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nba-season-engine/internal/config"
	"nba-season-engine/internal/engine"
	httpserver "nba-season-engine/internal/http"
	"nba-season-engine/internal/http/handlers"
	"nba-season-engine/internal/http/middleware"
	"nba-season-engine/internal/league"
	"nba-season-engine/internal/logging"
	"nba-season-engine/internal/metrics"
	"nba-season-engine/internal/postseason"
	"nba-season-engine/internal/schedule"
	"nba-season-engine/internal/tactics"
	"nba-season-engine/internal/views"
)

var metricsSetup = metrics.Setup

// Server owns the assembled components and their lifecycle.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	leagueClient  *league.Client
	engine        *engine.Engine
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with default wiring against the configured
// league authority.
func New(cfg config.Config, logger *slog.Logger) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	client := league.NewClient(league.Config{
		BaseURL:      cfg.League.BaseURL,
		ReportAPIKey: cfg.League.ReportAPIKey,
		HTTPClient:   &http.Client{Timeout: cfg.League.Timeout},
		MaxRetries:   cfg.League.MaxRetries,
		Logger:       logger,
		Metrics:      recorder,
	})

	scheduleStore := schedule.NewStore(client, logger)
	tacticsStore := tactics.NewStore()
	cache := views.NewCache(client, cfg.RecentScoreLimit, logger)
	eng := engine.New(client, scheduleStore, tacticsStore, cache, recorder, logger)
	machine := postseason.NewMachine(client, cache, logger)

	handler := handlers.NewHandler(eng, tacticsStore, cache, machine, client, logger)
	router := httpserver.NewRouter(handler)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.Logging(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		leagueClient:  client,
		engine:        eng,
		httpServer:    netHTTPServer{srv: srv},
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used by tests to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv, metricsSrv httpServer) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
	}
}

// Run starts the HTTP and metrics servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:        ":" + recCfg.Port,
				Handler:     handler,
				ReadTimeout: 5 * time.Second,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the wrapped HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
