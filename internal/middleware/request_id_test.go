package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var gotRequestID, gotTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = GetRequestID(r.Context())
		gotTraceID = GetTraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RequestID(next).ServeHTTP(rec, req)

	if gotRequestID == "" {
		t.Error("request ID should be generated")
	}
	if gotTraceID != gotRequestID {
		t.Errorf("trace ID should fall back to request ID: got %q, want %q", gotTraceID, gotRequestID)
	}
	if rec.Header().Get(RequestIDHeader) != gotRequestID {
		t.Error("request ID should be echoed in response header")
	}
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	var gotRequestID, gotTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = GetRequestID(r.Context())
		gotTraceID = GetTraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	req.Header.Set(TraceIDHeader, "trace-456")
	rec := httptest.NewRecorder()

	RequestID(next).ServeHTTP(rec, req)

	if gotRequestID != "req-123" {
		t.Errorf("request ID not propagated: got %q", gotRequestID)
	}
	if gotTraceID != "trace-456" {
		t.Errorf("trace ID not propagated: got %q", gotTraceID)
	}
}
