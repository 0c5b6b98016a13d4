// Package server implements the sky-view dashboard: a small HTTP server
// that renders the forecast page and exposes a JSON API for the same
// data.
//
// The server binds one fixed TCP port (8501 unless configured otherwise,
// matching the port the packaged image exposes) and serves:
//
//	GET /               HTML dashboard
//	GET /api/locations  location catalog as JSON
//	GET /api/forecast   forecast report as JSON
//	GET /healthz        liveness probe
//
// Startup is split into Listen and Serve so the bind either succeeds or
// fails before the process reports readiness. Shutdown is graceful with
// a bounded timeout.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/data-tamer2410/sky-view/internal/model"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// shutdownTimeout bounds graceful shutdown. In-flight forecast requests
// get five seconds to finish before the listener is torn down.
const shutdownTimeout = 5 * time.Second

// Forecaster produces the reports the dashboard displays. Implemented
// by the forecast.Service; stubs implement it in handler tests.
type Forecaster interface {
	Today(ctx context.Context, location string) (*model.ObservedReport, error)
	Tomorrow(ctx context.Context, location string) (*model.PredictedReport, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	port       int
	forecaster Forecaster
	locations  []string
	logger     *slog.Logger

	tmpl *template.Template
	httpServer *http.Server
}

// New creates a dashboard server. locations is the catalog shown in the
// select box (the "Other" free-text option is added by the page itself).
// A nil logger discards log output.
func New(port int, forecaster Forecaster, locations []string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("server: parse dashboard template: %w", err)
	}

	s := &Server{
		port:       port,
		forecaster: forecaster,
		locations:  locations,
		logger:     logger,
		tmpl:       tmpl,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler builds the route table. Exposed so handler tests can drive the
// mux through httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/locations", s.handleLocations)
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run binds the port, serves until ctx is cancelled, then shuts down
// gracefully. The bind happens synchronously: when Run logs readiness
// the socket is already accepting connections.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return model.WrapCLIError(model.ExitPortConflict,
			fmt.Sprintf("failed to bind port %d", s.port), err)
	}

	s.logger.Info("dashboard listening",
		"address", fmt.Sprintf("http://localhost:%d/", s.port))

	serveErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("dashboard server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown failed: %w", err)
	}
	return nil
}

// handleHealth implements the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("health check", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
