package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workhub/workhub/internal/model"
)

// Common errors for workspace repository operations.
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// WorkspacePatch describes a partial update to a workspace.
// Nil fields are left unchanged.
type WorkspacePatch struct {
	Name        *string
	Description *string
}

// CreateWorkspace inserts a workspace and its initial access grant in a
// single transaction. Either both rows persist or neither does.
func (r *Repository) CreateWorkspace(ctx context.Context, ws *model.Workspace, grant *model.AccessGrant) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO workspaces (id, name, description, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			ws.ID,
			ws.Name,
			nullableString(ws.Description),
			ws.OwnerID,
			ws.CreatedAt,
			ws.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO access_grants (id, user_id, workspace_id, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			grant.ID,
			grant.UserID,
			grant.WorkspaceID,
			string(grant.Role),
			grant.CreatedAt,
			grant.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create owner grant: %w", err)
		}

		return nil
	})
}

// GetWorkspaceByID retrieves a workspace by its ID.
func (r *Repository) GetWorkspaceByID(ctx context.Context, id string) (*model.Workspace, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`

	ws, err := scanWorkspace(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace by ID: %w", err)
	}

	return ws, nil
}

// ListWorkspacesForUser retrieves every workspace the user holds a grant on,
// in insertion order.
func (r *Repository) ListWorkspacesForUser(ctx context.Context, userID string) ([]*model.Workspace, error) {
	query := `
		SELECT w.id, w.name, w.description, w.owner_id, w.created_at, w.updated_at
		FROM workspaces w
		JOIN access_grants g ON g.workspace_id = w.id
		WHERE g.user_id = $1
		ORDER BY w.created_at, w.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*model.Workspace
	for rows.Next() {
		ws, err := scanWorkspaceFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workspaces: %w", err)
	}

	return workspaces, nil
}

// UpdateWorkspace applies a partial update in a single conditional statement.
// Returns ErrWorkspaceNotFound when no row matches, so a concurrent delete
// surfaces as a clean not-found rather than a lost update.
func (r *Repository) UpdateWorkspace(ctx context.Context, id string, patch WorkspacePatch) (*model.Workspace, error) {
	query := `
		UPDATE workspaces
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, owner_id, created_at, updated_at
	`

	ws, err := scanWorkspace(r.pool.QueryRow(ctx, query, id, patch.Name, patch.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return ws, nil
}

// DeleteWorkspace removes a workspace and all of its access grants in a
// single transaction. Grant removal is explicit rather than delegated to a
// database-level cascade so the contract is visible here.
func (r *Repository) DeleteWorkspace(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM access_grants WHERE workspace_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete access grants: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrWorkspaceNotFound
		}

		return nil
	})
}

// scanWorkspace scans a workspace from a single row.
func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	var description *string
	err := row.Scan(
		&ws.ID,
		&ws.Name,
		&description,
		&ws.OwnerID,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		ws.Description = *description
	}
	return &ws, nil
}

// scanWorkspaceFromRows scans a workspace from a result set.
func scanWorkspaceFromRows(rows pgx.Rows) (*model.Workspace, error) {
	return scanWorkspace(rows)
}

// nullableString converts an empty string to a NULL parameter.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
