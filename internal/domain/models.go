package domain

import "time"

// DefaultPoints is the weight of a question that does not specify one.
const DefaultPoints = 1

// InitialQuizVersion is assigned on creation; nothing bumps it yet.
const InitialQuizVersion = 1

// Option represents a possible answer for a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question models a single-select question.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
	// Points is optional; nil means DefaultPoints. An explicit 0 is kept.
	Points *int `json:"points,omitempty"`
}

// Weight returns the number of points the question is worth.
func (q Question) Weight() int {
	if q.Points == nil {
		return DefaultPoints
	}
	return *q.Points
}

// Quiz is a collection of questions identified by a shareable code.
type Quiz struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Title     string     `json:"title"`
	TimeLimit int        `json:"timeLimit"`
	Version   int        `json:"version"`
	CreatedBy string     `json:"createdBy"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SuspiciousEvent is a proctoring signal recorded against an attempt.
type SuspiciousEvent struct {
	Type string         `json:"type"`
	Meta map[string]any `json:"meta"`
	Time time.Time      `json:"time"`
}

// Answers maps question IDs to the submitted payload. String payloads are option IDs.
type Answers map[string]any

// Attempt is one student's pass over a quiz.
type Attempt struct {
	ID               string            `json:"id"`
	QuizID           string            `json:"quizId"`
	StudentID        string            `json:"studentId"`
	Answers          Answers           `json:"answers"`
	Score            int               `json:"score"`
	StartTime        time.Time         `json:"startTime"`
	EndTime          *time.Time        `json:"endTime"`
	SuspiciousEvents []SuspiciousEvent `json:"suspiciousEvents"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Active reports whether the attempt has not been submitted yet.
func (a Attempt) Active() bool {
	return a.EndTime == nil
}

// Submission carries the fields written when an attempt is submitted.
type Submission struct {
	Answers Answers
	Score   int
	EndTime time.Time
}

// User is an account that can log in.
type User struct {
	ID           string    `json:"uid"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the verified identity behind a bearer credential.
type Principal struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Stats is the dashboard aggregate.
type Stats struct {
	QuizCount          int `json:"quizzes"`
	AttemptCount       int `json:"attempts"`
	ActiveAttemptCount int `json:"activeAttempts"`
}
