package middleware

import "net/http"

// MaxBodySize returns a middleware that caps request body size. Requests
// declaring a larger Content-Length are rejected up front; chunked bodies
// are capped by MaxBytesReader, so a decoder reading past the limit fails
// instead of buffering an unbounded payload.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
