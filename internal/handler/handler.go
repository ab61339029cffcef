// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/workhub/workhub/internal/handler/dto"
	"github.com/workhub/workhub/internal/middleware"
)

// Handler wraps shared behavior for HTTP handlers.
// production controls whether error descriptions are included in responses.
type Handler struct {
	production bool
}

// New creates a new Handler instance.
func New(production bool) *Handler {
	return &Handler{production: production}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", "")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", "")
}

// writeJSON writes a JSON response with the given status code.
// Success responses return the resource body directly, without an envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing useful left to do.
		_ = err
	}
}

// requestID returns the request ID for log correlation.
func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

// writeError writes a structured error envelope. The description is
// omitted in production mode.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message, description string) {
	if h.production {
		description = ""
	}

	writeJSON(w, status, dto.ErrorResponse{
		Success: false,
		Error: dto.ErrorDetail{
			Code:        code,
			Message:     message,
			Description: description,
		},
		Timestamp: time.Now().UTC(),
		TraceID:   middleware.GetTraceID(r.Context()),
	})
}
