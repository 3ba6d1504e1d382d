package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-admin-service/internal/domain"
)

// maxCodeAttempts bounds regeneration after quiz code collisions.
const maxCodeAttempts = 5

// QuizDraft is the author-supplied part of a new quiz.
type QuizDraft struct {
	Title     string
	TimeLimit int
	Questions []domain.Question
}

// QuizService contains the quiz catalog use cases.
type QuizService struct {
	quizzes QuizRepository
	now     func() time.Time
	newCode func() string
}

func NewQuizService(quizzes QuizRepository) *QuizService {
	return &QuizService{quizzes: quizzes, now: time.Now, newCode: domain.GenerateQuizCode}
}

// NewQuizServiceWithClock is test-only for deterministic timestamps and codes.
func NewQuizServiceWithClock(quizzes QuizRepository, now func() time.Time, newCode func() string) *QuizService {
	return &QuizService{quizzes: quizzes, now: now, newCode: newCode}
}

// CreateQuiz validates the draft, issues a unique code and stores the quiz.
func (s *QuizService) CreateQuiz(ctx context.Context, createdBy string, draft QuizDraft) (domain.Quiz, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return domain.Quiz{}, domain.InvalidInput("title is required")
	}
	if draft.TimeLimit < 0 {
		return domain.Quiz{}, domain.InvalidInput("timeLimit must not be negative")
	}
	if err := domain.ValidateQuestions(draft.Questions); err != nil {
		return domain.Quiz{}, err
	}

	questions := draft.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	now := s.now().UTC()
	for i := 0; i < maxCodeAttempts; i++ {
		code := s.newCode()
		quiz := domain.Quiz{
			ID:        code,
			Code:      code,
			Title:     draft.Title,
			TimeLimit: draft.TimeLimit,
			Version:   domain.InitialQuizVersion,
			CreatedBy: createdBy,
			Questions: questions,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := s.quizzes.Insert(ctx, quiz)
		if err == nil {
			return quiz, nil
		}
		if !errors.Is(err, domain.ErrDuplicateCode) {
			return domain.Quiz{}, err
		}
	}
	return domain.Quiz{}, fmt.Errorf("create quiz: %w after %d tries", domain.ErrDuplicateCode, maxCodeAttempts)
}

// GetPublicQuiz returns the quiz for taking, without correctness flags.
func (s *QuizService) GetPublicQuiz(ctx context.Context, code string) (domain.PublicQuiz, error) {
	quiz, err := s.GetQuiz(ctx, code)
	if err != nil {
		return domain.PublicQuiz{}, err
	}
	return domain.ToPublicView(quiz), nil
}

// GetQuiz returns the full quiz document for privileged reviewers.
// Malformed codes are rejected without touching the store or cache.
func (s *QuizService) GetQuiz(ctx context.Context, code string) (domain.Quiz, error) {
	if !domain.ValidQuizCode(code) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return s.quizzes.FindByCode(ctx, code)
}

// ListQuizzes returns up to limit quizzes matching the filter.
func (s *QuizService) ListQuizzes(ctx context.Context, filter QuizFilter, limit int) ([]domain.Quiz, error) {
	return s.quizzes.List(ctx, filter, NormalizeLimit(limit))
}
