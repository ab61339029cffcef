// Package access decides whether an authenticated user may act on a
// workspace, based on the access grants ledger.
package access

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/workhub/workhub/internal/model"
	"github.com/workhub/workhub/internal/repository"
)

// Denial reasons returned by Authorize.
var (
	// ErrUnauthenticated means no authenticated user was present. The auth
	// middleware runs before authorization, so hitting this in practice
	// indicates a route wiring mistake.
	ErrUnauthenticated = errors.New("no authenticated user")
	// ErrMissingWorkspaceID means the target workspace could not be
	// determined from the request.
	ErrMissingWorkspaceID = errors.New("missing workspace identifier")
	// ErrInsufficientRole means the user holds no grant with any of the
	// required roles on the workspace.
	ErrInsufficientRole = errors.New("insufficient role")
)

// GrantSource looks up the grant a user holds on a workspace. Implementations
// return repository.ErrGrantNotFound (possibly wrapped) when no grant exists.
// *repository.Repository satisfies this interface.
type GrantSource interface {
	GetGrant(ctx context.Context, userID, workspaceID string) (*model.AccessGrant, error)
}

// GrantCache memoizes grant roles for the resolver. Implementations treat
// errors as misses. *cache.Cache satisfies this interface.
type GrantCache interface {
	GetGrantRole(ctx context.Context, userID, workspaceID string) (model.Role, bool)
	SetGrantRole(ctx context.Context, userID, workspaceID string, role model.Role) error
}

// Resolver answers authorization questions against the grant ledger.
type Resolver struct {
	grants GrantSource
	cache  GrantCache // may be nil
}

// NewResolver creates a Resolver. cache may be nil, in which case every
// decision hits the grant store.
func NewResolver(grants GrantSource, cache GrantCache) *Resolver {
	return &Resolver{
		grants: grants,
		cache:  cache,
	}
}

// Authorize decides whether userID may act on workspaceID with one of the
// required roles. It returns nil to allow, or one of the denial reasons.
//
// Roles are not hierarchical: holding owner does not satisfy a check for
// admin unless owner is explicitly in the required set. An empty required
// set allows unconditionally, meaning the route declares no restriction.
func (r *Resolver) Authorize(ctx context.Context, userID, workspaceID string, required ...model.Role) error {
	if len(required) == 0 {
		return nil
	}

	if userID == "" {
		return ErrUnauthenticated
	}

	if workspaceID == "" {
		return ErrMissingWorkspaceID
	}

	role, err := r.grantRole(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrGrantNotFound) {
			return ErrInsufficientRole
		}
		return fmt.Errorf("resolve grant: %w", err)
	}

	if !slices.Contains(required, role) {
		return ErrInsufficientRole
	}

	return nil
}

// grantRole returns the role userID holds on workspaceID, consulting the
// cache before the store.
func (r *Resolver) grantRole(ctx context.Context, userID, workspaceID string) (model.Role, error) {
	if r.cache != nil {
		if role, ok := r.cache.GetGrantRole(ctx, userID, workspaceID); ok {
			return role, nil
		}
	}

	grant, err := r.grants.GetGrant(ctx, userID, workspaceID)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		// Best effort: a failed cache write only costs the next lookup.
		_ = r.cache.SetGrantRole(ctx, userID, workspaceID, grant.Role)
	}

	return grant.Role, nil
}
