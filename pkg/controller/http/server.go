package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/23blocks-OS/platform-sync/pkg/usecase"
	"github.com/23blocks-OS/platform-sync/pkg/utils/logging"
)

// Server is the REST surface of the sync service. It only translates request
// bodies into sync records and results back into responses; all semantics
// live in the use case layer.
type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	apiToken string
}

type Options func(*Server)

// WithAPIToken enables static bearer-token authentication on the API routes
func WithAPIToken(token string) Options {
	return func(s *Server) {
		s.apiToken = token
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/sync", func(r chi.Router) {
		if s.apiToken != "" {
			r.Use(tokenAuthMiddleware(s.apiToken))
		}

		r.Post("/users", s.handleReconcile)
		r.Post("/users/batch", s.handleBatch)
		r.Delete("/users/{externalID}", s.handleDeactivate)
		r.Get("/runs", s.handleListRuns)
		r.Get("/summary", s.handleSummary)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
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
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
