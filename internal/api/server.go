// Package api provides the HTTP REST API for CourseCore.
//
// It exposes registration, login, session and account endpoints, plus
// admin-only user and audit listings, to web and mobile clients.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ravenlow/coursecore/internal/audit"
	"github.com/ravenlow/coursecore/internal/auth"
	"github.com/ravenlow/coursecore/internal/infrastructure/config"
	"github.com/ravenlow/coursecore/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config          config.APIConfig
	Logger          *logging.Logger
	Users           auth.UserRepository
	Audit           audit.Repository
	Hasher          *auth.Hasher
	Codec           *auth.TokenCodec
	TokenTTLSeconds int
	Version         string
}

// Server is the HTTP API server for CourseCore.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg             config.APIConfig
	logger          *logging.Logger
	users           auth.UserRepository
	audit           audit.Repository
	hasher          *auth.Hasher
	codec           *auth.TokenCodec
	tokenTTLSeconds int
	version         string
	server          *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if deps.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if deps.Codec == nil {
		return nil, fmt.Errorf("token codec is required")
	}
	// Audit is optional; auth events are simply not recorded without it.

	ttl := deps.TokenTTLSeconds
	if ttl <= 0 {
		ttl = int(auth.DefaultTokenTTL / time.Second)
	}

	return &Server{
		cfg:             deps.Config,
		logger:          deps.Logger,
		users:           deps.Users,
		audit:           deps.Audit,
		hasher:          deps.Hasher,
		codec:           deps.Codec,
		tokenTTLSeconds: ttl,
		version:         deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
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
