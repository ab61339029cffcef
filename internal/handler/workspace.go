package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workhub/workhub/internal/auth"
	"github.com/workhub/workhub/internal/handler/dto"
	"github.com/workhub/workhub/internal/model"
	"github.com/workhub/workhub/internal/service"
)

// WorkspaceHandler handles HTTP requests for workspace operations.
// Role checks happen in middleware before these handlers run.
type WorkspaceHandler struct {
	*Handler
	svc    *service.WorkspaceService
	logger *slog.Logger
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(base *Handler, svc *service.WorkspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		Handler: base,
		svc:     svc,
		logger:  logger,
	}
}

// Create handles POST /workspaces.
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	input := service.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     auth.UserIDFromContext(r.Context()),
	}

	ws, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	h.logger.Info("workspace_created",
		"workspace_id", ws.ID,
		"owner_id", ws.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToWorkspaceResponse(ws))
}

// List handles GET /workspaces.
// Returns the workspaces the caller holds any grant on.
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	workspaces, err := h.svc.ListAccessible(r.Context(), userID)
	if err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWorkspaceListResponse(workspaces))
}

// Get handles GET /workspaces/{id}.
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWorkspaceResponse(ws))
}

// Update handles PATCH /workspaces/{id}.
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	input := service.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	}

	ws, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	h.logger.Info("workspace_updated", "workspace_id", ws.ID)

	writeJSON(w, http.StatusOK, dto.ToWorkspaceResponse(ws))
}

// Delete handles DELETE /workspaces/{id}.
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Remove(r.Context(), id); err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	h.logger.Info("workspace_deleted", "workspace_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// ListMembers handles GET /workspaces/{id}/members.
func (h *WorkspaceHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	grants, err := h.svc.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMemberListResponse(grants))
}

// AddMember handles POST /workspaces/{id}/members.
func (h *WorkspaceHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	grant, err := h.svc.AddMember(r.Context(), id, req.Username, model.Role(req.Role))
	if err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	h.logger.Info("member_added",
		"workspace_id", id,
		"user_id", grant.UserID,
		"role", string(grant.Role),
	)

	writeJSON(w, http.StatusCreated, dto.ToMemberResponse(grant))
}

// RemoveMember handles DELETE /workspaces/{id}/members/{userID}.
func (h *WorkspaceHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userID")

	if err := h.svc.RemoveMember(r.Context(), id, userID); err != nil {
		h.handleWorkspaceError(w, r, err)
		return
	}

	h.logger.Info("member_removed",
		"workspace_id", id,
		"user_id", userID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleWorkspaceError maps workspace service errors to HTTP responses.
func (h *WorkspaceHandler) handleWorkspaceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound):
		h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", "Workspace not found", "")
	case errors.Is(err, service.ErrInvalidName):
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid workspace name",
			"Name is required and at most 100 characters")
	case errors.Is(err, service.ErrInvalidDescription):
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid workspace description",
			"Description is at most 500 characters")
	case errors.Is(err, service.ErrEmptyPatch):
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "No fields to update", "")
	case errors.Is(err, service.ErrMemberNotFound):
		h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", "Member not found", "")
	case errors.Is(err, service.ErrMemberExists):
		h.writeError(w, r, http.StatusConflict, "MEMBER_EXISTS", "User already has access to this workspace", "")
	case errors.Is(err, service.ErrInvalidRole):
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid role",
			"Role must be one of: owner, admin, member")
	case errors.Is(err, service.ErrCannotRemoveOwner):
		h.writeError(w, r, http.StatusConflict, "CANNOT_REMOVE_OWNER", "The workspace owner cannot be removed", "")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", requestID(r),
		)
		h.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", "")
	}
}
