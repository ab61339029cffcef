package model

import "testing"

func TestRole_IsValid(t *testing.T) {
	t.Parallel()

	for _, role := range ValidRoles {
		if !role.IsValid() {
			t.Errorf("role %q should be valid", role)
		}
	}

	for _, role := range []Role{"", "OWNER", "superuser", "owner "} {
		if role.IsValid() {
			t.Errorf("role %q should be invalid", role)
		}
	}
}

func TestUser_Sanitized(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:           "user-1",
		Username:     "alice",
		PasswordHash: "$argon2id$...",
	}

	clean := user.Sanitized()

	if clean.PasswordHash != "" {
		t.Error("sanitized user should not carry the password hash")
	}
	if clean.ID != user.ID || clean.Username != user.Username {
		t.Error("sanitized user should keep identity fields")
	}
	if user.PasswordHash == "" {
		t.Error("Sanitized must not mutate the original")
	}
}
