package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// errorBody is the failure envelope returned on auth and authorization
// failures. It matches the envelope the handler layer writes.
type errorBody struct {
	Success   bool        `json:"success"`
	Error     errorDetail `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"traceId"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a structured error envelope.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Success: false,
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now().UTC(),
		TraceID:   GetTraceID(r.Context()),
	})
}
