package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/auth"
	"quiz-admin-service/internal/domain"
	"quiz-admin-service/internal/infra/memory"
)

func newAuthService() *app.AuthService {
	tokens := auth.NewTokenManager("test-secret", "quiz-admin", time.Hour)
	return app.NewAuthService(memory.NewUserStore(), tokens).WithHashCost(bcrypt.MinCost)
}

func TestSeedAdminAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	created, err := svc.SeedAdmin(ctx, app.NewUser{ID: "admin-1", Email: "admin@university.edu", Name: "Super Admin", Password: "admin123"})
	if err != nil || !created {
		t.Fatalf("seed: created=%v err=%v", created, err)
	}
	again, err := svc.SeedAdmin(ctx, app.NewUser{ID: "admin-1", Email: "admin@university.edu", Password: "other"})
	if err != nil || again {
		t.Fatalf("expected seeding to be skipped, created=%v err=%v", again, err)
	}

	token, err := svc.Login(ctx, "Admin@University.edu", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	principal, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.UserID != "admin-1" || principal.Role != domain.RoleSuperAdmin {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()
	if _, err := svc.CreateUser(ctx, app.NewUser{Email: "t@school.edu", Password: "pw", Role: domain.RoleTeacher}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Login(ctx, "t@school.edu", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@school.edu", "pw"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	cases := []app.NewUser{
		{Email: "not-an-email", Password: "pw", Role: domain.RoleStudent},
		{Email: "s@school.edu", Password: "", Role: domain.RoleStudent},
		{Email: "s@school.edu", Password: "pw", Role: domain.Role("owner")},
	}
	for i, in := range cases {
		if _, err := svc.CreateUser(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}

	if _, err := svc.CreateUser(ctx, app.NewUser{Email: "s@school.edu", Password: "pw", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateUser(ctx, app.NewUser{Email: "S@school.edu", Password: "pw", Role: domain.RoleStudent}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCurrentUserAndCount(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()
	user, err := svc.CreateUser(ctx, app.NewUser{ID: "t-1", Email: "t@school.edu", Name: "Teach", Password: "pw", Role: domain.RoleTeacher})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.CurrentUser(ctx, domain.Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if got.Email != "t@school.edu" || got.Name != "Teach" {
		t.Fatalf("unexpected user %+v", got)
	}
	if _, err := svc.CurrentUser(ctx, domain.Principal{UserID: "gone"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if n, err := svc.UserCount(ctx); err != nil || n != 1 {
		t.Fatalf("expected 1 user, n=%d err=%v", n, err)
	}
}
