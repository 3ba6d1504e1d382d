package app

import (
	"context"

	"quiz-admin-service/internal/domain"
)

const (
	// DefaultListLimit applies when a caller does not ask for a page size.
	DefaultListLimit = 100
	// MaxListLimit caps any requested page size.
	MaxListLimit = 500
)

// QuizFilter narrows quiz listings. Empty fields match everything.
type QuizFilter struct {
	CreatedBy string
}

// AttemptFilter narrows attempt listings and counts. Empty fields match everything.
type AttemptFilter struct {
	QuizID     string
	StudentID  string
	ActiveOnly bool
}

// Matches reports whether the attempt satisfies the filter.
func (f AttemptFilter) Matches(a domain.Attempt) bool {
	if f.QuizID != "" && a.QuizID != f.QuizID {
		return false
	}
	if f.StudentID != "" && a.StudentID != f.StudentID {
		return false
	}
	if f.ActiveOnly && !a.Active() {
		return false
	}
	return true
}

// QuizRepository stores quiz documents. Insert must fail with
// domain.ErrDuplicateCode when the code is taken so callers can retry.
type QuizRepository interface {
	Insert(ctx context.Context, quiz domain.Quiz) error
	FindByCode(ctx context.Context, code string) (domain.Quiz, error)
	FindByID(ctx context.Context, id string) (domain.Quiz, error)
	List(ctx context.Context, filter QuizFilter, limit int) ([]domain.Quiz, error)
	Count(ctx context.Context) (int, error)
}

// AttemptRepository stores attempt documents (in-memory, Postgres, etc).
type AttemptRepository interface {
	// Insert assigns a new opaque ID and returns it.
	Insert(ctx context.Context, attempt domain.Attempt) (string, error)
	FindByID(ctx context.Context, id string) (domain.Attempt, error)
	// Submit writes answers, score and end time. With onlyIfActive the write
	// is conditional on the attempt not being submitted yet.
	Submit(ctx context.Context, id string, sub domain.Submission, onlyIfActive bool) error
	// AppendEvent atomically appends to the event log and returns its new length.
	// A positive maxEvents rejects the append with domain.ErrEventLimit once reached.
	AppendEvent(ctx context.Context, id string, event domain.SuspiciousEvent, maxEvents int) (int, error)
	List(ctx context.Context, filter AttemptFilter, limit int) ([]domain.Attempt, error)
	Count(ctx context.Context, filter AttemptFilter) (int, error)
}

// UserRepository stores accounts. Insert fails with domain.ErrConflict on a taken email.
type UserRepository interface {
	Insert(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	Count(ctx context.Context) (int, error)
}

// NormalizeLimit clamps a requested page size into [1, MaxListLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
