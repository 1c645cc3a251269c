// Package api provides the HTTP API server and handlers for the TMan Origins back office.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures HTTP behaviour that depends on deployment.
type Options struct {
	Version            string
	CORSAllowedOrigins []string
	CookieSecure       bool
	MaxUploadSize      int64
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	deps     Dependencies
	opts     Options
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, deps Dependencies, opts Options, logger *slog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 32 << 20
	}

	router := chi.NewRouter()
	s := &Server{
		services: services,
		deps:     deps,
		opts:     opts,
		router:   router,
		logger:   logger,
	}

	// Middleware must be registered before huma attaches its routes to the mux.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("TMan Origins API", opts.Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookie": {
			Type: "apiKey",
			In:   "cookie",
			Name: SessionCookieName,
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(noStoreAPI)
	s.router.Use(s.sessionMiddleware)
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAdminRoutes()
	s.registerCreatorRoutes()
	s.registerApplicationRoutes()
	s.registerUploadRoutes()
}

// requestLogger logs one line per request through the server's structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.LogAttrs(r.Context(), slog.LevelDebug, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// noStoreAPI marks every /api response as uncacheable so staff always see current state.
func noStoreAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}
