package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
)

func TestAttemptStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	id, err := store.Insert(ctx, domain.Attempt{QuizID: "ABC123", StudentID: "s1", StartTime: start})
	if err != nil || id == "" {
		t.Fatalf("insert: id=%q err=%v", id, err)
	}

	for i, typ := range []string{"blur", "tab-switch", "copy"} {
		n, err := store.AppendEvent(ctx, id, domain.SuspiciousEvent{Type: typ, Time: start.Add(time.Duration(i) * time.Second)}, 0)
		if err != nil {
			t.Fatalf("append %s: %v", typ, err)
		}
		if n != i+1 {
			t.Fatalf("expected length %d, got %d", i+1, n)
		}
	}

	end := start.Add(time.Minute)
	if err := store.Submit(ctx, id, domain.Submission{Answers: domain.Answers{"q1": "o2"}, Score: 1, EndTime: end}, true); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := store.Submit(ctx, id, domain.Submission{Score: 0, EndTime: end}, true); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected guarded resubmit to fail, got %v", err)
	}

	got, err := store.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Score != 1 || got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Fatalf("unexpected submitted attempt %+v", got)
	}
	if len(got.SuspiciousEvents) != 3 || got.SuspiciousEvents[0].Type != "blur" || got.SuspiciousEvents[2].Type != "copy" {
		t.Fatalf("unexpected events %+v", got.SuspiciousEvents)
	}

	// Mutating the returned copy must not reach the store.
	got.SuspiciousEvents[0].Type = "changed"
	again, _ := store.FindByID(ctx, id)
	if again.SuspiciousEvents[0].Type != "blur" {
		t.Fatalf("store aliased returned events")
	}
}

func TestAttemptStoreEventLimit(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	id, _ := store.Insert(ctx, domain.Attempt{QuizID: "ABC123", StudentID: "s1"})

	for i := 0; i < 2; i++ {
		if _, err := store.AppendEvent(ctx, id, domain.SuspiciousEvent{Type: "blur"}, 2); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if _, err := store.AppendEvent(ctx, id, domain.SuspiciousEvent{Type: "blur"}, 2); !errors.Is(err, domain.ErrEventLimit) {
		t.Fatalf("expected event limit, got %v", err)
	}
}

func TestAttemptStoreAppendsAfterSubmit(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	id, _ := store.Insert(ctx, domain.Attempt{QuizID: "ABC123", StudentID: "s1"})
	end := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	if err := store.Submit(ctx, id, domain.Submission{Score: 2, EndTime: end}, true); err != nil {
		t.Fatalf("submit: %v", err)
	}

	n, err := store.AppendEvent(ctx, id, domain.SuspiciousEvent{Type: "tab-switch", Time: end.Add(time.Second)}, 0)
	if err != nil || n != 1 {
		t.Fatalf("expected late append to succeed, n=%d err=%v", n, err)
	}
	got, _ := store.FindByID(ctx, id)
	if got.Score != 2 || got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Fatalf("late append touched submission fields: %+v", got)
	}
}

func TestAttemptStoreMissing(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.AppendEvent(ctx, "missing", domain.SuspiciousEvent{Type: "blur"}, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Submit(ctx, "missing", domain.Submission{}, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttemptStoreCountAndList(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i, quizID := range []string{"AAA111", "AAA111", "BBB222"} {
		id, _ := store.Insert(ctx, domain.Attempt{QuizID: quizID, StudentID: "s1", StartTime: base.Add(time.Duration(i) * time.Second)})
		ids = append(ids, id)
	}
	_ = store.Submit(ctx, ids[0], domain.Submission{EndTime: base.Add(time.Hour)}, false)

	total, _ := store.Count(ctx, app.AttemptFilter{})
	active, _ := store.Count(ctx, app.AttemptFilter{ActiveOnly: true})
	if total != 3 || active != 2 {
		t.Fatalf("expected 3 total / 2 active, got %d / %d", total, active)
	}

	forQuiz, _ := store.List(ctx, app.AttemptFilter{QuizID: "AAA111"}, 10)
	if len(forQuiz) != 2 || forQuiz[0].ID != ids[0] {
		t.Fatalf("unexpected listing %+v", forQuiz)
	}
}
