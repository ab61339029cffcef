package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/workhub/workhub/internal/auth"
	"github.com/workhub/workhub/internal/handler/dto"
	"github.com/workhub/workhub/internal/service"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	*Handler
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Handler, svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Handler: base,
		svc:     svc,
		logger:  logger,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	user, err := h.svc.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.logger.Info("user_created",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Signin handles POST /auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	user, err := h.svc.ValidateCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}
	if user == nil {
		// Same response for unknown user and wrong password.
		h.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials", "")
		return
	}

	token, err := h.svc.IssueToken(user)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.logger.Info("user_signed_in",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", "")
		return
	}

	user, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleAuthError maps auth service errors to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		h.writeError(w, r, http.StatusConflict, "USERNAME_TAKEN", "Username already taken", "")
	case errors.Is(err, service.ErrInvalidUsername):
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid username",
			"Usernames are 3-32 characters: letters, digits, underscore, hyphen")
	case errors.Is(err, service.ErrPasswordTooShort):
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Password too short",
			"Passwords must be at least 8 characters")
	case errors.Is(err, service.ErrPasswordTooLong):
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Password too long",
			"Passwords must be at most 128 characters")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", "")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", requestID(r),
		)
		h.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", "")
	}
}
