package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/docustruct/internal/api"
	"github.com/jackzampolin/docustruct/internal/config"
	"github.com/jackzampolin/docustruct/internal/engine"
	"github.com/jackzampolin/docustruct/internal/home"
	"github.com/jackzampolin/docustruct/internal/jobs"
	"github.com/jackzampolin/docustruct/internal/outline"
	"github.com/jackzampolin/docustruct/internal/server/endpoints"
	"github.com/jackzampolin/docustruct/internal/svcctx"
)

// Server is the main DocuStruct HTTP server.
// It owns the analysis worker pool, starting it before the listener opens
// and stopping it after in-flight requests have drained.
type Server struct {
	httpServer *http.Server
	analyzer   *outline.Analyzer
	pool       *jobs.CPUWorkerPool
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	running  bool
	stopped  bool
	listener net.Listener
}

// Config holds server configuration.
type Config struct {
	// Host overrides server.host from the config manager when set
	Host string
	// Port overrides server.port from the config manager when set ("0" picks a free port)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the docustruct home directory
	Home *home.Dir
	// Opener decodes PDFs; defaults to the ledongthuc-based engine
	Opener outline.Opener
	// SwaggerSpecPath serves swagger.json from disk instead of the compiled-in doc
	SwaggerSpecPath string
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}
	if cfg.Host == "" {
		cfg.Host = appCfg.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = appCfg.Server.Port
	}
	if cfg.Opener == nil {
		cfg.Opener = engine.New(engine.Config{Logger: cfg.Logger})
	}

	analyzer := outline.NewAnalyzer(outline.AnalyzerConfig{
		Opener:  cfg.Opener,
		Options: appCfg.ToOptions(),
		Logger:  cfg.Logger,
	})

	pool := jobs.NewCPUWorkerPool(jobs.CPUWorkerPoolConfig{
		Name:        "analyze",
		Logger:      cfg.Logger,
		WorkerCount: appCfg.Workers.Count,
		QueueSize:   appCfg.Workers.QueueSize,
	})
	pool.RegisterHandler(jobs.TaskAnalyze, jobs.NewAnalyzeHandler(analyzer))

	// Watch for config changes
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			analyzer.SetOptions(c.ToOptions())
			cfg.Logger.Info("analysis options reloaded from config",
				"h1_ratio", c.Analysis.H1Ratio, "h2_ratio", c.Analysis.H2Ratio)
		})
	}

	s := &Server{
		analyzer:  analyzer,
		pool:      pool,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}
	s.services = &svcctx.Services{
		Analyzer:      analyzer,
		Pool:          pool,
		ConfigManager: cfg.ConfigManager,
		Logger:        cfg.Logger,
		Home:          cfg.Home,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	// Uploads can take the whole request timeout to analyze.
	var writeTimeout time.Duration
	if t := appCfg.RequestTimeout(); t > 0 {
		writeTimeout = t + 30*time.Second
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the worker pool and the HTTP server.
// It blocks until the context is cancelled or an error occurs.
// A Server cannot be started again after it stops.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	if s.stopped {
		s.mu.Unlock()
		return errors.New("server already stopped")
	}
	s.running = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	// The pool outlives ctx so in-flight analyses finish during shutdown.
	poolCtx, stopPool := context.WithCancel(context.Background())
	poolDone := make(chan struct{})
	go func() {
		s.pool.Start(poolCtx)
		close(poolDone)
	}()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("HTTP server error: %w", err)
		}
	}

	s.shutdown(stopPool, poolDone)
	return serveErr
}

// shutdown drains HTTP requests, then stops the pool.
func (s *Server) shutdown(stopPool context.CancelFunc, poolDone <-chan struct{}) {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	stopPool()
	<-poolDone

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.setNotRunning()
	s.logger.Info("server stopped")
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. Once started it is the bound
// address, which resolves a configured port of "0".
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Analyzer returns the outline analyzer.
func (s *Server) Analyzer() *outline.Analyzer {
	return s.analyzer
}

// Pool returns the analysis worker pool.
func (s *Server) Pool() *jobs.CPUWorkerPool {
	return s.pool
}

// Endpoints returns the endpoint registry (used to build the api CLI tree).
func (s *Server) Endpoints() *api.Registry {
	return s.endpointRegistry
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until the analysis pool is running.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.pool.Running() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
