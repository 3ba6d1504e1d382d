package app

import (
	"context"
	"log"
	"strings"
	"time"

	"quiz-admin-service/internal/domain"
)

// DefaultMaxEvents caps the suspicious event log of a single attempt.
const DefaultMaxEvents = 1000

// AttemptPolicy tunes the attempt lifecycle.
type AttemptPolicy struct {
	// MaxEvents caps the event log; zero or less disables the cap.
	MaxEvents int
	// SingleSubmit rejects a second submission with domain.ErrAlreadySubmitted.
	// When false, a repeated submission overwrites answers, score and end time.
	SingleSubmit bool
}

// AttemptService contains the attempt lifecycle use cases.
type AttemptService struct {
	quizzes   QuizRepository
	attempts  AttemptRepository
	publisher EventPublisher
	policy    AttemptPolicy
	now       func() time.Time
}

func NewAttemptService(quizzes QuizRepository, attempts AttemptRepository, publisher EventPublisher, policy AttemptPolicy) *AttemptService {
	return NewAttemptServiceWithClock(quizzes, attempts, publisher, policy, time.Now)
}

// NewAttemptServiceWithClock is test-only for deterministic timestamps.
func NewAttemptServiceWithClock(quizzes QuizRepository, attempts AttemptRepository, publisher EventPublisher, policy AttemptPolicy, now func() time.Time) *AttemptService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &AttemptService{
		quizzes:   quizzes,
		attempts:  attempts,
		publisher: publisher,
		policy:    policy,
		now:       now,
	}
}

// StartAttempt opens a new attempt for the quiz with the given code.
func (s *AttemptService) StartAttempt(ctx context.Context, quizCode, studentID string) (string, error) {
	if strings.TrimSpace(studentID) == "" {
		return "", domain.InvalidInput("studentId is required")
	}
	if !domain.ValidQuizCode(quizCode) {
		return "", domain.ErrQuizNotFound
	}
	quiz, err := s.quizzes.FindByCode(ctx, quizCode)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	id, err := s.attempts.Insert(ctx, domain.Attempt{
		QuizID:           quiz.ID,
		StudentID:        studentID,
		Answers:          domain.Answers{},
		Score:            0,
		StartTime:        now,
		EndTime:          nil,
		SuspiciousEvents: []domain.SuspiciousEvent{},
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return "", err
	}

	s.publish(ctx, AttemptEvent{Kind: EventAttemptStarted, AttemptID: id, QuizID: quiz.ID, StudentID: studentID, At: now})
	return id, nil
}

// SubmitAttempt scores the answers against the attempt's quiz and closes the attempt.
func (s *AttemptService) SubmitAttempt(ctx context.Context, attemptID string, answers domain.Answers) (domain.Grade, error) {
	attempt, err := s.attempts.FindByID(ctx, attemptID)
	if err != nil {
		return domain.Grade{}, err
	}
	if s.policy.SingleSubmit && !attempt.Active() {
		return domain.Grade{}, domain.ErrAlreadySubmitted
	}
	quiz, err := s.quizzes.FindByID(ctx, attempt.QuizID)
	if err != nil {
		return domain.Grade{}, err
	}

	if answers == nil {
		answers = domain.Answers{}
	}
	grade := domain.GradeAnswers(quiz, answers)
	now := s.now().UTC()
	if err := s.attempts.Submit(ctx, attemptID, domain.Submission{
		Answers: answers,
		Score:   grade.Score,
		EndTime: now,
	}, s.policy.SingleSubmit); err != nil {
		return domain.Grade{}, err
	}

	s.publish(ctx, AttemptEvent{
		Kind:      EventAttemptSubmitted,
		AttemptID: attemptID,
		QuizID:    quiz.ID,
		StudentID: attempt.StudentID,
		Score:     &grade.Score,
		MaxScore:  &grade.MaxScore,
		At:        now,
	})
	return grade, nil
}

// LogSuspiciousEvent appends a proctoring signal and returns the log length.
func (s *AttemptService) LogSuspiciousEvent(ctx context.Context, attemptID, eventType string, meta map[string]any) (int, error) {
	if strings.TrimSpace(eventType) == "" {
		return 0, domain.InvalidInput("type is required")
	}
	event := domain.SuspiciousEvent{Type: eventType, Meta: meta, Time: s.now().UTC()}
	n, err := s.attempts.AppendEvent(ctx, attemptID, event, s.policy.MaxEvents)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, AttemptEvent{Kind: EventAttemptSuspicious, AttemptID: attemptID, Suspicious: &event, At: event.Time})
	return n, nil
}

// GetAttempt returns a stored attempt for reviewers.
func (s *AttemptService) GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error) {
	return s.attempts.FindByID(ctx, attemptID)
}

// ListAttempts returns up to limit attempts matching the filter.
func (s *AttemptService) ListAttempts(ctx context.Context, filter AttemptFilter, limit int) ([]domain.Attempt, error) {
	return s.attempts.List(ctx, filter, NormalizeLimit(limit))
}

// GetStats counts quizzes, attempts and attempts still in progress.
func (s *AttemptService) GetStats(ctx context.Context) (domain.Stats, error) {
	quizzes, err := s.quizzes.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	attempts, err := s.attempts.Count(ctx, AttemptFilter{})
	if err != nil {
		return domain.Stats{}, err
	}
	active, err := s.attempts.Count(ctx, AttemptFilter{ActiveOnly: true})
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{QuizCount: quizzes, AttemptCount: attempts, ActiveAttemptCount: active}, nil
}

func (s *AttemptService) publish(ctx context.Context, event AttemptEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish %s for attempt %s: %v", event.Kind, event.AttemptID, err)
	}
}
