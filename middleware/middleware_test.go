package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clementus360/simpliday/supabase"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserID(r.Context())))
	})
}

func TestAuth(t *testing.T) {
	const secret = "test-secret"
	valid, err := supabase.GenerateAccessToken(secret, "user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	forged, _ := supabase.GenerateAccessToken("other-secret", "user-1", time.Hour)
	expired, _ := supabase.GenerateAccessToken(secret, "user-1", -time.Hour)

	tests := []struct {
		name   string
		secret string
		header string
		status int
		body   string
	}{
		{"valid token", secret, "Bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", secret, "", http.StatusUnauthorized, ""},
		{"wrong signature", secret, "Bearer " + forged, http.StatusUnauthorized, ""},
		{"expired", secret, "Bearer " + expired, http.StatusUnauthorized, ""},
		{"garbage", secret, "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"unverified mode", "", "Bearer " + forged, http.StatusOK, "user-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(tt.secret)(echoUser()).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && rec.Body.String() != tt.body {
				t.Errorf("user = %q, want %q", rec.Body.String(), tt.body)
			}
			if tt.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"success":false`) {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))
	if rec.Code != http.StatusNoContent || called {
		t.Errorf("preflight status = %d, handler called = %v", rec.Code, called)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"), LoggingMiddleware)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b" || rec.Code != http.StatusTeapot {
		t.Errorf("order = %v, status = %d", order, rec.Code)
	}
}
