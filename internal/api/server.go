package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/config"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/influxdb"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/logging"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/mqtt"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/session"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.ServerConfig
	Device   config.DeviceConfig
	Logger   *logging.Logger
	Sessions *session.Store
	MQTT     *mqtt.Client     // optional status announcer
	Metrics  *influxdb.Client // optional latency sink
	Version  string
}

// Server is the bridge's HTTP API server.
//
// It owns the listener, routes, and middleware; all device state lives
// behind the session store. The server is created with New() and started
// with Start().
type Server struct {
	cfg       config.ServerConfig
	device    config.DeviceConfig
	logger    *logging.Logger
	sessions  *session.Store
	mqtt      *mqtt.Client
	metrics   *influxdb.Client
	version   string
	server    *http.Server
	startTime time.Time
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, session store)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	// MQTT and Metrics are optional, the bridge works without either

	return &Server{
		cfg:      deps.Config,
		device:   deps.Device,
		logger:   deps.Logger,
		sessions: deps.Sessions,
		mqtt:     deps.MQTT,
		metrics:  deps.Metrics,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(_ context.Context) error {
	s.startTime = time.Now()

	s.server = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
