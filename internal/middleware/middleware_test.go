package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zeroverload/SmartLib/internal/http/request"
)

func TestHandleCORSAnswersPreflight(t *testing.T) {
	called := false
	handler := NewMiddleware().HandleCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if called {
		t.Fatal(`Preflight request must not reach the handler`)
	}
	if w.Code != http.StatusOK {
		t.Fatalf(`Unexpected status code, got %d`, w.Code)
	}
	if v := w.Header().Get("Access-Control-Allow-Origin"); v != "*" {
		t.Fatalf(`Unexpected header value, got %q`, v)
	}
}

func TestLoggingRequestStoresClientIP(t *testing.T) {
	var clientIP string
	handler := NewMiddleware().LoggingRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP = request.ClientIP(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	r := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if clientIP != "203.0.113.7" {
		t.Fatalf(`Unexpected client IP, got %q`, clientIP)
	}
	if w.Code != http.StatusTeapot {
		t.Fatalf(`Unexpected status code, got %d`, w.Code)
	}
}
