// Package server serves the MCP server over HTTP: streamable HTTP on /mcp or
// SSE on /sse and /message, plus health and version endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/yfinance-mcp/internal/app"
	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	sse    *mcpserver.SSEServer
	logger *common.Logger
}

// NewServer creates the HTTP server for the configured transport.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// SSE streams stay open for the life of the session
	if s.sse != nil {
		s.server.WriteTimeout = 0
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Str("transport", s.app.Config.Server.Transport).
		Msg("Starting MCP HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.sse != nil {
		if err := s.sse.Shutdown(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("SSE shutdown failed")
		}
	}
	return s.server.Shutdown(ctx)
}

// publicBaseURL is the address SSE clients are told to post messages to
func publicBaseURL(config *common.Config) string {
	host := config.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, config.Server.Port)
}
