package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
	"quiz-admin-service/internal/infra/memory"
)

func TestCreateQuizAssignsCode(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuizStore()
	svc := app.NewQuizService(store)

	quiz, err := svc.CreateQuiz(ctx, "teacher-1", app.QuizDraft{
		Title:     "Sample",
		TimeLimit: 10,
		Questions: sampleQuiz().Questions,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !domain.ValidQuizCode(quiz.Code) || quiz.ID != quiz.Code {
		t.Fatalf("unexpected identifiers id=%q code=%q", quiz.ID, quiz.Code)
	}
	if quiz.Version != 1 || quiz.CreatedBy != "teacher-1" || quiz.CreatedAt.IsZero() {
		t.Fatalf("unexpected quiz header %+v", quiz)
	}
	if _, err := store.FindByCode(ctx, quiz.Code); err != nil {
		t.Fatalf("expected quiz stored: %v", err)
	}
}

func TestCreateQuizRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuizStore()
	_ = store.Insert(ctx, sampleQuiz())

	codes := []string{"ABC123", "ABC123", "NEW456"}
	next := func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}
	svc := app.NewQuizServiceWithClock(store, time.Now, next)

	quiz, err := svc.CreateQuiz(ctx, "teacher-1", app.QuizDraft{Title: "Again", TimeLimit: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if quiz.Code != "NEW456" {
		t.Fatalf("expected retry to land on NEW456, got %s", quiz.Code)
	}
}

func TestCreateQuizGivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuizStore()
	_ = store.Insert(ctx, sampleQuiz())
	svc := app.NewQuizServiceWithClock(store, time.Now, func() string { return "ABC123" })

	if _, err := svc.CreateQuiz(ctx, "teacher-1", app.QuizDraft{Title: "Stuck"}); !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected duplicate code, got %v", err)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	svc := app.NewQuizService(memory.NewQuizStore())
	drafts := []app.QuizDraft{
		{Title: "  ", TimeLimit: 5},
		{Title: "Negative", TimeLimit: -1},
		{Title: "Dup", Questions: []domain.Question{{ID: "q1"}, {ID: "q1"}}},
	}
	for i, d := range drafts {
		if _, err := svc.CreateQuiz(context.Background(), "teacher-1", d); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("draft %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestGetPublicQuizHidesCorrectness(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuizStore()
	_ = store.Insert(ctx, sampleQuiz())
	svc := app.NewQuizService(store)

	view, err := svc.GetPublicQuiz(ctx, "ABC123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Questions) != 2 || view.Questions[0].Options[1].ID != "b" {
		t.Fatalf("unexpected view %+v", view)
	}
	full, _ := svc.GetQuiz(ctx, "ABC123")
	if !full.Questions[0].Options[1].IsCorrect {
		t.Fatalf("stored quiz lost correctness flags")
	}
	if _, err := svc.GetPublicQuiz(ctx, "NOPE00"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestGetQuizRejectsMalformedCode(t *testing.T) {
	ctx := context.Background()
	store := &lookupCountingRepo{QuizStore: memory.NewQuizStore()}
	_ = store.Insert(ctx, sampleQuiz())
	svc := app.NewQuizService(store)

	if _, err := svc.GetPublicQuiz(ctx, "abc123"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if _, err := svc.GetQuiz(ctx, "ABC 123"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if store.lookups != 0 {
		t.Fatalf("expected no store lookups, got %d", store.lookups)
	}
}
