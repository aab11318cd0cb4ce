package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slighter12/unity-mcp-go/config"
	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp"
	"github.com/slighter12/unity-mcp-go/tools"
	"github.com/slighter12/unity-mcp-go/transport/shared"
)

const (
	sessionIdleTimeout = 30 * time.Minute
	cleanupInterval    = 5 * time.Minute
	shutdownTimeout    = 5 * time.Second
)

type Server struct {
	config      *config.Config
	toolManager *tools.Manager
	resources   *shared.Resources
	sessions    *SessionManager
	info        mcp.Implementation
	gatherer    prometheus.Gatherer
	echo        *echo.Echo
}

type Option func(*Server)

// WithMetrics serves the gatherer's metrics on the configured metrics path.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

func NewServer(cfg *config.Config, toolManager *tools.Manager, resources *shared.Resources, info mcp.Implementation, opts ...Option) *Server {
	s := &Server{
		config:      cfg,
		toolManager: toolManager,
		resources:   resources,
		sessions:    NewSessionManager(),
		info:        info,
		echo:        echo.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("HTTP request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "remote_addr", c.RealIP())
			return nil
		},
	}))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, headerSessionID, headerProtocolVersion},
		ExposeHeaders: []string{headerSessionID},
	}))
	RegisterRoutes(s.echo, s)
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
	logger.Info("Streamable HTTP server starting to listen", "address", addr, "endpoint", mcpEndpoint)

	go s.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down Streamable HTTP server")
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.sessions.CleanupSessions(sessionIdleTimeout); removed > 0 {
				logger.Info("Expired idle MCP sessions", "count", removed)
			}
		}
	}
}

func (s *Server) GetSessionManager() *SessionManager {
	return s.sessions
}
