// internal/membership/implementation.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"bookstack/internal/apperr"
	"bookstack/internal/auth"
)

// service implements the Service interface.
type service struct {
	store       Store
	tokens      *auth.TokenManager
	rateLimiter *rate.Limiter
}

// NewService creates a new membership service instance.
func NewService(store Store, tokens *auth.TokenManager) Service {
	return &service{
		store:       store,
		tokens:      tokens,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute), 5), // 5 sign-ups per minute
	}
}

// SignUp registers a new account. Role defaults to member when omitted.
func (s *service) SignUp(ctx context.Context, name, email, password, role string) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, apperr.New(apperr.Conflict, "Too many sign-up attempts, try again later")
	}

	if name == "" || email == "" {
		return nil, apperr.New(apperr.InvalidArgument, "Name and email are required")
	}
	if len(password) < 8 {
		return nil, apperr.New(apperr.InvalidArgument, "Password must be at least 8 characters")
	}
	if role == "" {
		role = RoleMember
	}
	if !ValidRole(role) {
		return nil, apperr.Newf(apperr.InvalidArgument, "Unknown role %q", role)
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		Role:         role,
		PasswordHash: passwordHash,
		Salt:         salt,
	}
	return s.store.Create(ctx, user)
}

// Login verifies the credentials and issues an access/refresh token pair.
func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := verifyPassword(password, user.Salt, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.IssueTokens(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) Profile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.FindByID(ctx, id)
}
