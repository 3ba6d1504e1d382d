package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
)

// Handler adapts the app services to JSON over HTTP. Each endpoint calls one service operation.
type Handler struct {
	quizzes  *app.QuizService
	attempts *app.AttemptService
	auth     *app.AuthService
	validate *validator.Validate
	status   Status
	now      func() time.Time
}

// Status describes the wired backends for the status endpoint.
type Status struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Events   string `json:"events"`
}

func NewHandler(quizzes *app.QuizService, attempts *app.AttemptService, auth *app.AuthService, status Status) *Handler {
	return &Handler{
		quizzes:  quizzes,
		attempts: attempts,
		auth:     auth,
		validate: validator.New(),
		status:   status,
		now:      time.Now,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type createUserRequest struct {
	UID      string `json:"uid"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=superadmin teacher student"`
}

type createQuizRequest struct {
	Title     string            `json:"title" validate:"required"`
	TimeLimit *int              `json:"timeLimit" validate:"required,min=0"`
	Questions []domain.Question `json:"questions"`
}

type createQuizResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type startAttemptRequest struct {
	QuizCode  string `json:"quizCode" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

type submitAttemptRequest struct {
	AttemptID string         `json:"attemptId" validate:"required"`
	Answers   domain.Answers `json:"answers" validate:"required"`
}

type logEventRequest struct {
	AttemptID string         `json:"attemptId" validate:"required"`
	Type      string         `json:"type" validate:"required"`
	Meta      map[string]any `json:"meta"`
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Backend OK",
		"time":    h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.UserCount(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"backend":           "go",
		"database":          h.status.Database,
		"cache":             h.status.Cache,
		"events":            h.status.Events,
		"users":             users,
		"connection_status": "connected",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	user, err := h.auth.CurrentUser(r.Context(), principal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.auth.CreateUser(r.Context(), app.NewUser{
		ID:       req.UID,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	quiz, err := h.quizzes.CreateQuiz(r.Context(), principal.UserID, app.QuizDraft{
		Title:     req.Title,
		TimeLimit: *req.TimeLimit,
		Questions: req.Questions,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createQuizResponse{ID: quiz.ID, Code: quiz.Code})
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var filter app.QuizFilter
	if mine, _ := strconv.ParseBool(r.URL.Query().Get("mine")); mine {
		principal, _ := PrincipalFromContext(r.Context())
		filter.CreatedBy = principal.UserID
	}
	quizzes, err := h.quizzes.ListQuizzes(r.Context(), filter, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) GetPublicQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetPublicQuiz(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) GetFullQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetQuiz(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	var req startAttemptRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.attempts.StartAttempt(r.Context(), req.QuizCode, req.StudentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"attemptId": id})
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var req submitAttemptRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	grade, err := h.attempts.SubmitAttempt(r.Context(), req.AttemptID, req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grade)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	active, _ := strconv.ParseBool(q.Get("active"))
	attempts, err := h.attempts.ListAttempts(r.Context(), app.AttemptFilter{
		QuizID:     q.Get("quizId"),
		StudentID:  q.Get("studentId"),
		ActiveOnly: active,
	}, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.attempts.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *Handler) LogEvent(w http.ResponseWriter, r *http.Request) {
	var req logEventRequest
	if err := decode(r, h.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.attempts.LogSuspiciousEvent(r.Context(), req.AttemptID, req.Type, req.Meta); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged"})
}

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attempts.GetStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.InvalidInput("limit must be a non-negative integer")
	}
	return n, nil
}
