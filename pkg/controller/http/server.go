package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/haus-labs/haus-agent/pkg/usecase"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
)

// Server is the callback API the hosted voice pipeline calls into.
type Server struct {
	router   *chi.Mux
	sessions *usecase.SessionUseCase
	token    string
}

type Options func(*Server)

// WithCallbackToken requires "Authorization: Bearer <token>" on /api routes.
func WithCallbackToken(token string) Options {
	return func(s *Server) {
		s.token = token
	}
}

func New(sessions *usecase.SessionUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		sessions: sessions,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/sessions", func(r chi.Router) {
		if s.token != "" {
			r.Use(bearerTokenMiddleware(s.token))
		}
		r.Use(middleware.AllowContentType("application/json"))

		r.Post("/", startSessionHandler(s.sessions))
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", endSessionHandler(s.sessions))
			r.Post("/turns", turnHandler(s.sessions))
			r.Post("/messages", appendMessageHandler(s.sessions))
			r.Get("/tools", listToolsHandler(s.sessions))
			r.Post("/tools/{toolName}", invokeToolHandler(s.sessions))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
