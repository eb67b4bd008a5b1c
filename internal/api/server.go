// Package api provides the admin HTTP surface for hosteldesk. It exposes the
// public dispatch operations (bulk campaign send and single test send) over
// a chi router. The bulk endpoint is synchronous: the response is written
// only after every batch has completed. There is no job queue; callers that
// need fire-and-forget semantics wrap the call themselves.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"hosteldesk/internal/config"
	"hosteldesk/internal/dispatch"
)

// Server holds the dependencies for the admin API.
type Server struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
	validate   *validator.Validate
	router     *chi.Mux
}

// NewServer builds the admin API server and mounts its routes.
func NewServer(cfg *config.Config, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
		validate:   validator.New(),
		router:     chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/v1/notifications", func(r chi.Router) {
		r.Post("/bulk", s.handleBulkSend)
		r.Post("/test", s.handleTestSend)
	})

	return s
}

// Handler returns the mounted router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the admin API on the configured port.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("admin API listening", "port", s.cfg.Server.Port)
	return srv.ListenAndServe()
}

// requestLogger logs one line per request after it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Data: map[string]string{"status": "ok"}})
}
