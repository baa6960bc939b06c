// Package server exposes the layout engine over HTTP.
//
// # Endpoints
//
//   - GET /healthz reports liveness and the build version.
//   - POST /v1/layout computes a page from panel sizes without reading any
//     files. Lengths in the request and response are millimetres.
//
// Example request:
//
//	{
//	  "layout": "2,1",
//	  "panels": [{"width": 100, "height": 100}, {"width": 200, "height": 100}, {"width": 1, "height": 1}],
//	  "page_width": 180,
//	  "margin": 5,
//	  "spacing": 3,
//	  "label_size": 12
//	}
//
// Validation failures are answered with 400 and a body of the form
// {"code": "INVALID_INPUT", "error": "..."}.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Default server limits.
const (
	DefaultAddr     = ":8080"
	maxBodyBytes    = 1 << 20
	maxPanels       = 1000
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	router chi.Router
	logger *log.Logger
}

// New creates a server. A nil logger uses log.Default().
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Error: "no route for " + r.URL.Path})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}
