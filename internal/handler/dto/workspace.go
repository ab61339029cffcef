package dto

import (
	"time"

	"github.com/workhub/workhub/internal/model"
)

// CreateWorkspaceRequest represents the request body for creating a workspace.
type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateWorkspaceRequest represents a partial workspace update.
// Only name and description are patchable; ID and owner are immutable.
type UpdateWorkspaceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// WorkspaceResponse represents a workspace in API responses.
type WorkspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkspaceListResponse represents the accessible workspaces of a user.
type WorkspaceListResponse struct {
	Data []WorkspaceResponse `json:"data"`
}

// AddMemberRequest represents the request body for granting workspace access.
type AddMemberRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// MemberResponse represents an access grant in API responses.
type MemberResponse struct {
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// MemberListResponse represents the members of a workspace.
type MemberListResponse struct {
	Data []MemberResponse `json:"data"`
}

// ToWorkspaceResponse converts a Workspace model to WorkspaceResponse DTO.
func ToWorkspaceResponse(ws *model.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		OwnerID:     ws.OwnerID,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}

// ToWorkspaceListResponse converts workspaces to a list response.
func ToWorkspaceListResponse(workspaces []*model.Workspace) *WorkspaceListResponse {
	data := make([]WorkspaceResponse, 0, len(workspaces))
	for _, ws := range workspaces {
		data = append(data, *ToWorkspaceResponse(ws))
	}
	return &WorkspaceListResponse{Data: data}
}

// ToMemberResponse converts an AccessGrant model to MemberResponse DTO.
func ToMemberResponse(grant *model.AccessGrant) *MemberResponse {
	return &MemberResponse{
		UserID:      grant.UserID,
		WorkspaceID: grant.WorkspaceID,
		Role:        string(grant.Role),
		CreatedAt:   grant.CreatedAt,
	}
}

// ToMemberListResponse converts grants to a list response.
func ToMemberListResponse(grants []*model.AccessGrant) *MemberListResponse {
	data := make([]MemberResponse, 0, len(grants))
	for _, grant := range grants {
		data = append(data, *ToMemberResponse(grant))
	}
	return &MemberListResponse{Data: data}
}
