package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/panoptes/pkg/usecase"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
}

// New creates the HTTP server surface: a subscribe trigger and the webhook
// endpoint Graph calls back on (validation handshake and notifications).
func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()
	s := &Server{router: r}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/subscription", func(r chi.Router) {
		r.Get("/", subscribeHandler(uc.Subscription))
		r.Post("/", notificationHandler(uc.Notification))
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
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
