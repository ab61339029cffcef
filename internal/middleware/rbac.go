package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workhub/workhub/internal/access"
	"github.com/workhub/workhub/internal/auth"
	"github.com/workhub/workhub/internal/model"
)

// Authorizer decides whether a user may act on a workspace with one of the
// required roles. *access.Resolver satisfies this interface.
type Authorizer interface {
	Authorize(ctx context.Context, userID, workspaceID string, required ...model.Role) error
}

// RBACConfig holds configuration for the role middleware.
type RBACConfig struct {
	Logger   *slog.Logger
	Resolver Authorizer
}

// RequireRoles returns middleware enforcing that the authenticated caller
// holds one of the given roles on the workspace addressed by the {id} route
// parameter. Must be applied after Auth. Each route declares its accepted
// role set explicitly; roles carry no implicit hierarchy.
//
// The role check runs before any existence lookup, so a caller without a
// grant receives 403 whether or not the workspace exists.
func RequireRoles(cfg RBACConfig, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := auth.UserIDFromContext(r.Context())
			workspaceID := chi.URLParam(r, "id")

			err := cfg.Resolver.Authorize(r.Context(), userID, workspaceID, roles...)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			switch {
			case errors.Is(err, access.ErrUnauthenticated):
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			case errors.Is(err, access.ErrMissingWorkspaceID):
				writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Missing workspace identifier")
			case errors.Is(err, access.ErrInsufficientRole):
				cfg.Logger.Warn("authorization denied",
					slog.String("user_id", userID),
					slog.String("workspace_id", workspaceID),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient role for this workspace")
			default:
				cfg.Logger.Error("authorization error",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
			}
		})
	}
}
