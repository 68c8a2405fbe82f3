package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"wordrace/internal/app"
	"wordrace/internal/config"
	"wordrace/internal/store"
	"wordrace/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
	store  *store.Store
	engine *app.Engine
	config *config.Config
	logger zerolog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, st *store.Store, engine *app.Engine, logger zerolog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		store:  st,
		engine: engine,
		config: cfg,
		logger: logger.With().Str("component", "http").Logger(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:        cfg.GetAddr(),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// setupRoutes configures middleware and all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(chimw.Recoverer)
	s.router.Use(s.cors)
	s.router.Use(s.requestLogger)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Post("/rooms", s.handleCreateRoom)
		r.Get("/rooms/{roomId}", s.handleGetRoom)
	})

	wsOpts := ws.Options{
		RateLimit: s.config.WS.RateLimit,
		RateBurst: s.config.WS.RateBurst,
		ReadLimit: s.config.WS.ReadLimit,
	}
	s.router.Method(http.MethodGet, "/ws", ws.NewHandler(s.engine, wsOpts, s.logger))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.sendError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// cors adds CORS headers and answers preflight requests
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.config.Server.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request once it completes
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		ev := s.logger.Info()
		if !s.config.IsDevelopment() && r.URL.Path == "/api/health" {
			ev = s.logger.Debug()
		}
		ev.Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("server shutting down")
	return s.server.Shutdown(ctx)
}
