package model

import "time"

// Role is the privilege level a grant confers on a workspace.
// Roles are not hierarchical: each protected operation declares the
// exact set of roles it accepts.
type Role string

// Role values for access grants.
const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleOwner, RoleAdmin, RoleMember}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// AccessGrant links one user, one workspace, and one role.
// A user holds at most one grant per workspace.
type AccessGrant struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Identity holds the authenticated caller extracted from a bearer token.
// It is injected into the request context by the auth middleware.
type Identity struct {
	UserID   string
	Username string
}
