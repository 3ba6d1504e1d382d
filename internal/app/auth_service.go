package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quiz-admin-service/internal/domain"
)

// TokenIssuer issues and verifies bearer credentials.
type TokenIssuer interface {
	Issue(p domain.Principal) (string, error)
	Verify(token string) (domain.Principal, error)
}

// NewUser is the input for account creation.
type NewUser struct {
	ID       string
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// AuthService handles login and account management.
type AuthService struct {
	users    UserRepository
	tokens   TokenIssuer
	hashCost int
	now      func() time.Time
}

func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, hashCost: bcrypt.DefaultCost, now: time.Now}
}

// WithHashCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// Login checks the password and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return s.tokens.Issue(domain.Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
}

// Authenticate resolves a bearer token into a principal.
func (s *AuthService) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return s.tokens.Verify(token)
}

// CurrentUser loads the account behind an authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, p domain.Principal) (domain.User, error) {
	return s.users.FindByID(ctx, p.UserID)
}

// UserCount returns the number of registered accounts.
func (s *AuthService) UserCount(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}

// CreateUser stores a new account with a hashed password.
func (s *AuthService) CreateUser(ctx context.Context, in NewUser) (domain.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, domain.InvalidInput("invalid email %q", in.Email)
	}
	if in.Password == "" {
		return domain.User{}, domain.InvalidInput("password is required")
	}
	if _, err := domain.ParseRole(string(in.Role)); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now().UTC()
	user := domain.User{
		ID:           id,
		Email:        email,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// SeedAdmin creates the superadmin account unless its email is already registered.
func (s *AuthService) SeedAdmin(ctx context.Context, in NewUser) (bool, error) {
	_, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	in.Role = domain.RoleSuperAdmin
	if _, err := s.CreateUser(ctx, in); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	log.Printf("seeded superadmin %s", in.Email)
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
