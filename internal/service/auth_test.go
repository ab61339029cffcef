package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// Validation failures return before the repository is touched, so a nil
// repository is safe here.
func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(nil, nil)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"username too short", "ab", "password123", ErrInvalidUsername},
		{"username too long", strings.Repeat("a", 33), "password123", ErrInvalidUsername},
		{"username with spaces", "some user", "password123", ErrInvalidUsername},
		{"username with symbols", "user@example", "password123", ErrInvalidUsername},
		{"empty username", "", "password123", ErrInvalidUsername},
		{"password too short", "alice", "short", ErrPasswordTooShort},
		{"empty password", "alice", "", ErrPasswordTooShort},
		{"password too long", "alice", strings.Repeat("x", 129), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Signup(context.Background(), tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSignup_AcceptsValidUsernames(t *testing.T) {
	t.Parallel()

	for _, username := range []string{"abc", "alice_01", "some-user", strings.Repeat("a", 32)} {
		if !usernameRegex.MatchString(username) {
			t.Errorf("username %q should be valid", username)
		}
	}
}

func TestGenerateID(t *testing.T) {
	t.Parallel()

	a := generateID()
	b := generateID()

	if len(a) != 26 {
		t.Errorf("expected 26-char ULID, got %d chars", len(a))
	}
	if a == b {
		t.Error("consecutive IDs should differ")
	}
}
