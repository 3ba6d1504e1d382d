package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
)

// RouterConfig carries the transport-level settings.
type RouterConfig struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter mounts every endpoint. Student-facing routes are public; staff routes need a bearer token.
func NewRouter(h *Handler, monitor *MonitorHandler, auth *app.AuthService, cfg RouterConfig) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	// Long-lived; kept outside the request timeout.
	r.Get("/monitor/ws", monitor.ServeWS)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(timeout))

		api.Get("/", h.Root)
		api.Get("/status", h.Status)
		api.Post("/auth/login", h.Login)

		api.Get("/quizzes/{code}", h.GetPublicQuiz)
		api.Post("/attempts/start", h.StartAttempt)
		api.Post("/attempts/submit", h.SubmitAttempt)
		api.Post("/monitor/log", h.LogEvent)

		api.Group(func(pr chi.Router) {
			pr.Use(authenticate(auth))

			pr.Get("/auth/me", h.Me)
			pr.With(requireCapability(domain.CapUserManage)).Post("/users", h.CreateUser)
			pr.With(requireCapability(domain.CapQuizCreate)).Post("/quizzes", h.CreateQuiz)
			pr.With(requireCapability(domain.CapQuizReview)).Get("/quizzes", h.ListQuizzes)
			pr.With(requireCapability(domain.CapQuizReview)).Get("/quizzes/{code}/full", h.GetFullQuiz)
			pr.With(requireCapability(domain.CapAttemptReview)).Get("/attempts", h.ListAttempts)
			pr.With(requireCapability(domain.CapAttemptReview)).Get("/attempts/{attemptID}", h.GetAttempt)
			pr.With(requireCapability(domain.CapStatsView)).Get("/dashboard/stats", h.DashboardStats)
		})
	})
	return r
}
