package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/workhub/workhub/internal/cache"
	"github.com/workhub/workhub/internal/model"
	"github.com/workhub/workhub/internal/repository"
)

// Workspace service errors.
var (
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrInvalidName        = errors.New("invalid workspace name")
	ErrInvalidDescription = errors.New("workspace description too long")
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberExists       = errors.New("user is already a member")
	ErrInvalidRole        = errors.New("invalid role")
	ErrCannotRemoveOwner  = errors.New("cannot remove the workspace owner")
	ErrEmptyPatch         = errors.New("no fields to update")
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// WorkspaceService orchestrates workspace and membership operations.
// Authorization is enforced at the route boundary by the access resolver;
// the service assumes the caller has already been gated.
type WorkspaceService struct {
	repo  *repository.Repository
	cache *cache.Cache
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(repo *repository.Repository, cache *cache.Cache) *WorkspaceService {
	return &WorkspaceService{
		repo:  repo,
		cache: cache,
	}
}

// CreateWorkspaceInput defines input for creating a workspace.
type CreateWorkspaceInput struct {
	Name        string
	Description string
	OwnerID     string
}

// Create creates a workspace together with an owner grant for the creator.
// Both rows are written in one transaction: either both persist or neither.
func (s *WorkspaceService) Create(ctx context.Context, input CreateWorkspaceInput) (*model.Workspace, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, ErrInvalidName
	}
	if len(input.Description) > maxDescriptionLength {
		return nil, ErrInvalidDescription
	}

	now := time.Now().UTC()
	ws := &model.Workspace{
		ID:          generateID(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     input.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	grant := &model.AccessGrant{
		ID:          generateID(),
		UserID:      input.OwnerID,
		WorkspaceID: ws.ID,
		Role:        model.RoleOwner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateWorkspace(ctx, ws, grant); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return ws, nil
}

// ListAccessible returns every workspace the user holds a grant on, in
// insertion order.
func (s *WorkspaceService) ListAccessible(ctx context.Context, userID string) ([]*model.Workspace, error) {
	workspaces, err := s.repo.ListWorkspacesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if workspaces == nil {
		workspaces = []*model.Workspace{}
	}
	return workspaces, nil
}

// Get retrieves a workspace by ID. The access resolver has already gated
// the call at the boundary; this is an existence lookup only.
func (s *WorkspaceService) Get(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	ws, err := s.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrWorkspaceNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}

	return ws, nil
}

// UpdateWorkspaceInput defines a partial workspace update.
// Nil fields are left unchanged; ID and owner are immutable.
type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
}

// Update applies a partial update. The store applies it as one conditional
// statement, so a concurrent delete yields ErrWorkspaceNotFound rather than
// a lost update.
func (s *WorkspaceService) Update(ctx context.Context, workspaceID string, input UpdateWorkspaceInput) (*model.Workspace, error) {
	if input.Name == nil && input.Description == nil {
		return nil, ErrEmptyPatch
	}

	patch := repository.WorkspacePatch{
		Description: input.Description,
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxNameLength {
			return nil, ErrInvalidName
		}
		patch.Name = &name
	}
	if input.Description != nil && len(*input.Description) > maxDescriptionLength {
		return nil, ErrInvalidDescription
	}

	ws, err := s.repo.UpdateWorkspace(ctx, workspaceID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrWorkspaceNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}

	return ws, nil
}

// Remove deletes a workspace along with all of its grants. The two deletes
// run in one transaction; a nonexistent ID yields ErrWorkspaceNotFound with
// no mutation.
func (s *WorkspaceService) Remove(ctx context.Context, workspaceID string) error {
	if err := s.repo.DeleteWorkspace(ctx, workspaceID); err != nil {
		if errors.Is(err, repository.ErrWorkspaceNotFound) {
			return ErrWorkspaceNotFound
		}
		return err
	}

	// Cached grant roles for the deleted workspace expire on their own
	// short TTL; per-workspace invalidation would require a key scan.
	return nil
}

// ListMembers returns every grant on a workspace.
func (s *WorkspaceService) ListMembers(ctx context.Context, workspaceID string) ([]*model.AccessGrant, error) {
	grants, err := s.repo.ListGrantsByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if grants == nil {
		grants = []*model.AccessGrant{}
	}
	return grants, nil
}

// AddMember grants a user a role on a workspace. The target is addressed by
// username. Granting owner is allowed; a workspace may have several owners.
func (s *WorkspaceService) AddMember(ctx context.Context, workspaceID, username string, role model.Role) (*model.AccessGrant, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := time.Now().UTC()
	grant := &model.AccessGrant{
		ID:          generateID(),
		UserID:      user.ID,
		WorkspaceID: workspaceID,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The insert doubles as the workspace existence check: the store maps a
	// failed workspace reference to ErrWorkspaceNotFound, so no separate
	// lookup races a concurrent delete.
	if err := s.repo.CreateGrant(ctx, grant); err != nil {
		switch {
		case errors.Is(err, repository.ErrGrantExists):
			return nil, ErrMemberExists
		case errors.Is(err, repository.ErrWorkspaceNotFound):
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to create access grant: %w", err)
	}

	s.invalidateGrant(ctx, user.ID, workspaceID)

	return grant, nil
}

// RemoveMember revokes a user's grant on a workspace. The workspace owner
// cannot be removed, preserving the at-least-one-owner invariant.
//
// The owner check reads the workspace first; a workspace delete landing
// between the read and the grant delete leaves no grant to delete, which
// surfaces as ErrMemberNotFound rather than a partial mutation.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	ws, err := s.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrWorkspaceNotFound) {
			return ErrWorkspaceNotFound
		}
		return err
	}

	if ws.OwnerID == userID {
		return ErrCannotRemoveOwner
	}

	if err := s.repo.DeleteGrant(ctx, userID, workspaceID); err != nil {
		if errors.Is(err, repository.ErrGrantNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	s.invalidateGrant(ctx, userID, workspaceID)

	return nil
}

// invalidateGrant drops the cached role for a (user, workspace) pair.
// Best effort: on failure the stale entry expires with its TTL.
func (s *WorkspaceService) invalidateGrant(ctx context.Context, userID, workspaceID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeleteGrantRole(ctx, userID, workspaceID)
}
