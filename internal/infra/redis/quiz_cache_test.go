package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-admin-service/internal/domain"
	"quiz-admin-service/internal/infra/memory"
)

func TestQuizCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := &countingStore{QuizStore: memory.NewQuizStore()}
	if err := store.Insert(ctx, sampleQuiz()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	cache := NewQuizCache(newClient(mr), store, time.Minute)

	quiz, err := cache.FindByCode(ctx, "ABC123")
	if err != nil {
		t.Fatalf("find by code: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected store called once, got %d", store.calls)
	}
	if !quiz.Questions[0].Options[1].IsCorrect {
		t.Fatalf("cached quiz must keep correctness flags")
	}
	if !mr.Exists("quiz:code:ABC123") || !mr.Exists("quiz:id:ABC123") {
		t.Fatalf("expected redis keys to be set")
	}
	if ttl := mr.TTL("quiz:code:ABC123"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	// Second call and id lookup should hit cache.
	_, _ = cache.FindByCode(ctx, "ABC123")
	if _, err := cache.FindByID(ctx, "ABC123"); err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected cache hit, store calls=%d", store.calls)
	}
}

func TestQuizCachePassesThroughMisses(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewQuizCache(newClient(mr), memory.NewQuizStore(), time.Minute)
	if _, err := cache.FindByID(context.Background(), "GONE00"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if mr.Exists("quiz:id:GONE00") {
		t.Fatalf("misses must not be cached")
	}
}

func TestQuizCacheDelegatesWrites(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	cache := NewQuizCache(newClient(mr), memory.NewQuizStore(), time.Minute)
	if err := cache.Insert(ctx, sampleQuiz()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n, _ := cache.Count(ctx); n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}
}

type countingStore struct {
	*memory.QuizStore
	calls int
}

func (s *countingStore) FindByCode(ctx context.Context, code string) (domain.Quiz, error) {
	s.calls++
	return s.QuizStore.FindByCode(ctx, code)
}

func (s *countingStore) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	s.calls++
	return s.QuizStore.FindByID(ctx, id)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:        "ABC123",
		Code:      "ABC123",
		Title:     "Arithmetic",
		TimeLimit: 10,
		Version:   1,
		CreatedBy: "teacher-1",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "What is 2 + 2?",
				Options: []domain.Option{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", IsCorrect: true},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
