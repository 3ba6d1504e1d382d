package app

import (
	"context"
	"time"

	"quiz-admin-service/internal/domain"
)

// EventKind doubles as the routing key when events leave the process.
type EventKind string

const (
	EventAttemptStarted    EventKind = "attempt.started"
	EventAttemptSubmitted  EventKind = "attempt.submitted"
	EventAttemptSuspicious EventKind = "attempt.suspicious"
)

// AttemptEvent is a lifecycle notification about an attempt.
type AttemptEvent struct {
	Kind       EventKind               `json:"kind"`
	AttemptID  string                  `json:"attemptId"`
	QuizID     string                  `json:"quizId,omitempty"`
	StudentID  string                  `json:"studentId,omitempty"`
	Score      *int                    `json:"score,omitempty"`
	MaxScore   *int                    `json:"maxScore,omitempty"`
	Suspicious *domain.SuspiciousEvent `json:"suspicious,omitempty"`
	At         time.Time               `json:"at"`
}

// EventPublisher fans attempt events out to other systems. Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event AttemptEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AttemptEvent) error { return nil }
