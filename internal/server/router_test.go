package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eventmate/eventmate-go/internal/model"
)

func loginAttempts(t *testing.T, router http.Handler, n int, forwardedFor func(i int) string) int {
	t.Helper()

	limited := 0
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"x"}`))
		req.RemoteAddr = "203.0.113.7:40000"
		if forwardedFor != nil {
			req.Header.Set("X-Forwarded-For", forwardedFor(i))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	return limited
}

func TestAuthRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimitRPS = 0.001
	cfg.AuthRateLimitBurst = 1

	tests := []struct {
		name         string
		forwardedFor func(i int) string
	}{
		{"no header", nil},
		{"rotating forwarded address", func(i int) string { return fmt.Sprintf("198.51.100.%d", i+1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, cfg, nil)
			if limited := loginAttempts(t, router, 20, tt.forwardedFor); limited != 19 {
				t.Fatalf("rate limited %d of 20 requests, want 19", limited)
			}
		})
	}
}

func TestAuthRateLimitUsesForwardedForBehindProxy(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimitRPS = 0.001
	cfg.AuthRateLimitBurst = 1
	cfg.TrustProxy = true

	router, _ := newTestRouter(t, cfg, nil)

	distinct := func(i int) string { return fmt.Sprintf("198.51.100.%d", i+1) }
	if limited := loginAttempts(t, router, 5, distinct); limited != 0 {
		t.Fatalf("distinct forwarded clients: %d limited, want 0", limited)
	}

	same := func(int) string { return "198.51.100.200" }
	if limited := loginAttempts(t, router, 5, same); limited != 4 {
		t.Fatalf("one forwarded client: %d limited, want 4", limited)
	}
}

func TestHealthIsJSON(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body model.MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	if !body.OK || body.Message != "ok" {
		t.Errorf("body = %+v, want {ok:true message:ok}", body)
	}
}
