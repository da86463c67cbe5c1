// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apihandler "github.com/newthinker/pricecast/internal/api/handler/api"
	"github.com/newthinker/pricecast/internal/api/handler/web"
	"github.com/newthinker/pricecast/internal/api/job"
	"github.com/newthinker/pricecast/internal/api/middleware"
	"github.com/newthinker/pricecast/internal/api/response"
	"github.com/newthinker/pricecast/internal/core"
	"github.com/newthinker/pricecast/internal/dashboard"
	"github.com/newthinker/pricecast/internal/metrics"
	"github.com/newthinker/pricecast/internal/storage/history"
	"go.uber.org/zap"
)

const (
	readyTimeout = 5 * time.Second
	// writeMargin is added on top of the model timeout so a slow model call
	// still gets its redirect or error envelope written.
	writeMargin = 30 * time.Second
)

// Pinger checks that the model service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators the routes are wired to.
type Dependencies struct {
	Dashboard *dashboard.Dashboard
	Jobs      *job.Store
	History   history.Store
	Model     Pinger
	// Metrics is optional; when nil no /metrics route or middleware is set up.
	Metrics *metrics.Registry
}

// Server represents the HTTP server for the dashboard and API
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	deps       Dependencies
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	APIKey       string
	TemplatesDir string
	MetricsPath  string
	WriteTimeout time.Duration
	// ModelTimeout is the model client's request timeout. Prediction
	// handlers call the model synchronously, so the write timeout is
	// raised to cover it.
	ModelTimeout time.Duration
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Dashboard == nil {
		return nil, fmt.Errorf("dashboard is required")
	}
	if deps.Jobs == nil {
		deps.Jobs = job.NewStore(100, time.Hour)
	}
	if deps.History == nil {
		deps.History = history.NewMemoryStore(1000)
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 2 * time.Minute
	}
	if cfg.ModelTimeout > 0 && cfg.WriteTimeout < cfg.ModelTimeout+writeMargin {
		cfg.WriteTimeout = cfg.ModelTimeout + writeMargin
	}

	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
		deps:   deps,
	}

	// Set up routes
	if err := s.setupRoutes(cfg); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) error {
	// Web UI routes
	webHandler, err := web.NewHandler(cfg.TemplatesDir, s.deps.Dashboard, s.logger)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", webHandler.Dashboard)
	s.mux.HandleFunc("POST /train", webHandler.Train)
	s.mux.HandleFunc("POST /predict", webHandler.Predict)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/ready", s.handleReady)

	// JSON API routes
	var gauge apihandler.JobsGauge
	if s.deps.Metrics != nil {
		gauge = s.deps.Metrics
	}
	modelHandler := apihandler.NewModelHandler(s.deps.Dashboard, s.deps.Jobs, gauge, s.logger)
	historyHandler := apihandler.NewHistoryHandler(s.deps.History)

	v1 := http.NewServeMux()
	v1.HandleFunc("GET /api/v1/state", modelHandler.State)
	v1.HandleFunc("GET /api/v1/chart", modelHandler.Chart)
	v1.HandleFunc("POST /api/v1/train", modelHandler.Train)
	v1.HandleFunc("GET /api/v1/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		modelHandler.GetJob(w, r, r.PathValue("id"))
	})
	v1.HandleFunc("POST /api/v1/predict", modelHandler.Predict)
	v1.HandleFunc("GET /api/v1/history", historyHandler.List)

	s.mux.Handle("/api/v1/", middleware.APIKeyAuth(cfg.APIKey)(v1))

	if s.deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, s.deps.Metrics.Handler())
	}

	return nil
}

// WriteTimeout reports the effective response write timeout.
func (s *Server) WriteTimeout() time.Duration {
	return s.httpServer.WriteTimeout
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Model == nil {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.deps.Model.Ping(ctx); err != nil {
		s.logger.Warn("model service not ready", zap.Error(err))
		response.Error(w, http.StatusServiceUnavailable, core.WrapError(core.ErrModelUnavailable, err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
