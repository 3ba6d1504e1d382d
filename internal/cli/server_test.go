package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"quiz-admin-service/internal/config"
	"quiz-admin-service/internal/domain"
)

func TestBuildBackendsInMemory(t *testing.T) {
	b, err := buildBackends(context.Background(), config.Config{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer b.close()

	if b.status.Database != "memory" || b.status.Cache != "memory" || b.status.Events != "none" {
		t.Fatalf("unexpected status %+v", b.status)
	}
	if _, err := b.quizzes.FindByCode(context.Background(), "ABC123"); err == nil {
		t.Fatalf("expected empty quiz store")
	}
}

func TestBuildBackendsWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	var cfg config.Config
	cfg.Redis.Addr = mr.Addr()

	b, err := buildBackends(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer b.close()

	if b.status.Cache != "redis" {
		t.Fatalf("expected redis cache, got %q", b.status.Cache)
	}
	ctx := context.Background()
	if err := b.quizzes.Insert(ctx, domain.Quiz{ID: "ABC123", Code: "ABC123", Title: "t"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := b.quizzes.FindByCode(ctx, "ABC123"); err != nil {
		t.Fatalf("find: %v", err)
	}
	if !mr.Exists("quiz:code:ABC123") {
		t.Fatalf("expected quiz cached in redis")
	}
}
