package memory

import (
	"context"
	"errors"
	"testing"

	"quiz-admin-service/internal/domain"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	user := domain.User{ID: "admin-1", Email: "admin@university.edu", Role: domain.RoleSuperAdmin}

	if err := store.Insert(ctx, user); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, domain.User{ID: "other", Email: user.Email}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on email, got %v", err)
	}
	got, err := store.FindByEmail(ctx, "admin@university.edu")
	if err != nil || got.ID != "admin-1" {
		t.Fatalf("find by email: %+v %v", got, err)
	}
	if _, err := store.FindByID(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}
