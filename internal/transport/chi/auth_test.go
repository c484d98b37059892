package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoKeys_PassThrough(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		handler := BearerAuthMiddleware(keys)(okHandler())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/experts", http.NoBody))

		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		header  string
		status  int
		message string
	}{
		{"missing header", http.MethodGet, "/api/experts", "", http.StatusUnauthorized, "Missing authorization header"},
		{"basic scheme", http.MethodGet, "/api/experts", "Basic c2VjcmV0", http.StatusUnauthorized, "Authorization header must use Bearer scheme"},
		{"wrong key", http.MethodPost, "/api/assistant", "Bearer nope", http.StatusUnauthorized, "Invalid API key"},
		{"empty token", http.MethodPost, "/api/assistant", "Bearer ", http.StatusUnauthorized, "Invalid API key"},
		{"first key", http.MethodPost, "/api/assistant", "Bearer secret", http.StatusOK, ""},
		{"second key", http.MethodPost, "/api/assistant", "Bearer other", http.StatusOK, ""},
		{"health exempt", http.MethodGet, "/health", "", http.StatusOK, ""},
		{"metrics exempt", http.MethodGet, "/metrics", "", http.StatusOK, ""},
		{"preflight passes", http.MethodOptions, "/api/assistant", "", http.StatusOK, ""},
	}

	handler := BearerAuthMiddleware([]string{"secret", "other"})(okHandler())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("got %d, want %d", rr.Code, tc.status)
			}
			if tc.message == "" {
				return
			}
			var resp errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error != tc.message {
				t.Errorf("error = %q, want %q", resp.Error, tc.message)
			}
		})
	}
}
