package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the parent of every lookup failure.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when a credential is missing or invalid.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden is returned when a valid principal lacks the capability.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput indicates a malformed request payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuizNotFound indicates the quiz could not be resolved by code or id.
	ErrQuizNotFound = fmt.Errorf("quiz %w", ErrNotFound)
	// ErrAttemptNotFound indicates the attempt id does not resolve.
	ErrAttemptNotFound = fmt.Errorf("attempt %w", ErrNotFound)
	// ErrUserNotFound indicates no user matches.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrDuplicateCode is returned by stores when a quiz code is already taken.
	ErrDuplicateCode = errors.New("quiz code already exists")
	// ErrConflict is returned when a unique attribute other than the quiz code collides.
	ErrConflict = errors.New("already exists")
	// ErrAlreadySubmitted is returned by guarded submissions on a finished attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrEventLimit is returned when an attempt's event log is full.
	ErrEventLimit = errors.New("suspicious event limit reached")
)

// InvalidInput wraps ErrInvalidInput with a field-level reason.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
