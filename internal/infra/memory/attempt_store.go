package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
// Every read returns a copy so callers cannot alias the stored event log.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.Attempt
	newID    func() string
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]domain.Attempt),
		newID:    uuid.NewString,
	}
}

func (s *AttemptStore) Insert(_ context.Context, attempt domain.Attempt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.ID = s.newID()
	s.attempts[attempt.ID] = cloneAttempt(attempt)
	return attempt.ID, nil
}

func (s *AttemptStore) FindByID(_ context.Context, id string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return cloneAttempt(attempt), nil
}

func (s *AttemptStore) Submit(_ context.Context, id string, sub domain.Submission, onlyIfActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if onlyIfActive && !attempt.Active() {
		return domain.ErrAlreadySubmitted
	}
	end := sub.EndTime
	attempt.Answers = cloneAnswers(sub.Answers)
	attempt.Score = sub.Score
	attempt.EndTime = &end
	attempt.UpdatedAt = end
	s.attempts[id] = attempt
	return nil
}

func (s *AttemptStore) AppendEvent(_ context.Context, id string, event domain.SuspiciousEvent, maxEvents int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return 0, domain.ErrAttemptNotFound
	}
	if maxEvents > 0 && len(attempt.SuspiciousEvents) >= maxEvents {
		return 0, domain.ErrEventLimit
	}
	attempt.SuspiciousEvents = append(attempt.SuspiciousEvents, event)
	attempt.UpdatedAt = event.Time
	s.attempts[id] = attempt
	return len(attempt.SuspiciousEvents), nil
}

func (s *AttemptStore) List(_ context.Context, filter app.AttemptFilter, limit int) ([]domain.Attempt, error) {
	s.mu.RLock()
	out := make([]domain.Attempt, 0)
	for _, attempt := range s.attempts {
		if filter.Matches(attempt) {
			out = append(out, cloneAttempt(attempt))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *AttemptStore) Count(_ context.Context, filter app.AttemptFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, attempt := range s.attempts {
		if filter.Matches(attempt) {
			n++
		}
	}
	return n, nil
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	a.Answers = cloneAnswers(a.Answers)
	if a.EndTime != nil {
		end := *a.EndTime
		a.EndTime = &end
	}
	events := make([]domain.SuspiciousEvent, len(a.SuspiciousEvents))
	copy(events, a.SuspiciousEvents)
	a.SuspiciousEvents = events
	return a
}

func cloneAnswers(in domain.Answers) domain.Answers {
	out := make(domain.Answers, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
