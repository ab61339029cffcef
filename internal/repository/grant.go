package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workhub/workhub/internal/model"
)

// Common errors for access grant repository operations.
var (
	ErrGrantNotFound = errors.New("access grant not found")
	ErrGrantExists   = errors.New("access grant already exists")
)

// CreateGrant inserts a new access grant. A user holds at most one grant
// per workspace; duplicates return ErrGrantExists. Inserting against a
// workspace that no longer exists returns ErrWorkspaceNotFound: the insert
// itself is the existence check, so a concurrent workspace delete cannot
// slip between a lookup and the write.
func (r *Repository) CreateGrant(ctx context.Context, grant *model.AccessGrant) error {
	query := `
		INSERT INTO access_grants (id, user_id, workspace_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		grant.ID,
		grant.UserID,
		grant.WorkspaceID,
		string(grant.Role),
		grant.CreatedAt,
		grant.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrGrantExists
		}
		if isForeignKeyViolation(err) {
			// Users are never deleted, so the only reference that can
			// fail here is the workspace.
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to create access grant: %w", err)
	}

	return nil
}

// GetGrant retrieves the grant a user holds on a workspace.
// This is the authorization hot path.
func (r *Repository) GetGrant(ctx context.Context, userID, workspaceID string) (*model.AccessGrant, error) {
	query := `
		SELECT id, user_id, workspace_id, role, created_at, updated_at
		FROM access_grants
		WHERE user_id = $1 AND workspace_id = $2
	`

	grant, err := scanGrant(r.pool.QueryRow(ctx, query, userID, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGrantNotFound
		}
		return nil, fmt.Errorf("failed to get access grant: %w", err)
	}

	return grant, nil
}

// ListGrantsByWorkspace retrieves every grant on a workspace, in
// insertion order.
func (r *Repository) ListGrantsByWorkspace(ctx context.Context, workspaceID string) ([]*model.AccessGrant, error) {
	query := `
		SELECT id, user_id, workspace_id, role, created_at, updated_at
		FROM access_grants
		WHERE workspace_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list access grants: %w", err)
	}
	defer rows.Close()

	var grants []*model.AccessGrant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access grants: %w", err)
	}

	return grants, nil
}

// DeleteGrant removes the grant a user holds on a workspace.
// Returns ErrGrantNotFound when no such grant exists.
func (r *Repository) DeleteGrant(ctx context.Context, userID, workspaceID string) error {
	query := `
		DELETE FROM access_grants
		WHERE user_id = $1 AND workspace_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete access grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGrantNotFound
	}

	return nil
}

// scanGrant scans an access grant from a single row.
func scanGrant(row pgx.Row) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	var role string
	err := row.Scan(
		&grant.ID,
		&grant.UserID,
		&grant.WorkspaceID,
		&role,
		&grant.CreatedAt,
		&grant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	grant.Role = model.Role(role)
	return &grant, nil
}
