// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/workhub/workhub/internal/auth"
	"github.com/workhub/workhub/internal/model"
	"github.com/workhub/workhub/internal/repository"
)

// Auth service errors.
var (
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidUsername  = errors.New("invalid username format")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrUserNotFound     = errors.New("user not found")
)

// Username validation: 3-32 chars, alphanumeric plus underscore and hyphen.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

const (
	minPasswordLength = 8
	// Argon2 input is unbounded, but very long passwords are a DoS vector.
	maxPasswordLength = 128
)

// AuthService handles signup, credential validation, and token issuance.
type AuthService struct {
	repo   *repository.Repository
	tokens *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

// Signup creates a new user account. The returned user never carries the
// password hash.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*model.User, error) {
	if !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           generateID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user.Sanitized(), nil
}

// ValidateCredentials checks a username/password pair. On a match it returns
// the user without the password hash. On a mismatch it returns (nil, nil):
// unknown usernames and wrong passwords are indistinguishable to callers.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a verify anyway so unknown users cost the same as
			// wrong passwords.
			_, _ = auth.VerifyPassword(password, dummyHash)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, nil
	}

	return user.Sanitized(), nil
}

// IssueToken signs an access token for the user.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	return s.tokens.Issue(user)
}

// Profile retrieves a user by ID, without the password hash.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user.Sanitized(), nil
}

// dummyHash is a valid argon2id hash of a throwaway value, verified against
// when the username does not exist to keep response timing uniform.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=4$c29tZXNhbHRzb21lc2FsdA$Zm9vYmFyYmF6cXV4Zm9vYmFyYmF6cXV4Zm9vYmFyYmE"
