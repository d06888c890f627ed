package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/retrocade/retrocade/internal/ctxkeys"
	"github.com/retrocade/retrocade/internal/metrics"
	"github.com/retrocade/retrocade/internal/service"
)

type stubVerifier map[string]error

func (s stubVerifier) Verify(token string) error {
	err, ok := s[token]
	if !ok {
		return service.ErrInvalidToken
	}
	return err
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(r); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	verifier := stubVerifier{"good": nil, "broken": errors.New("redis down")}

	var seen string
	h := RequireAuth(verifier)(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.Token(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"unknown", "Bearer nope", http.StatusUnauthorized},
		{"store failure", "Bearer broken", http.StatusInternalServerError},
		{"valid", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("DELETE", "/api/games/1", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, r)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusUnauthorized {
				var body map[string]string
				_ = json.NewDecoder(rec.Body).Decode(&body)
				if body["error"] != "Unauthorized" {
					t.Errorf("body = %v", body)
				}
			}
		})
	}
	if seen != "good" {
		t.Errorf("token in context = %q", seen)
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other clients are independent")
	}

	unlimited := NewRateLimiter(ctx, 0, time.Minute)
	for i := 0; i < 10; i++ {
		if !unlimited.Allow("a") {
			t.Fatal("zero limit should disable limiting")
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Chain(http.HandlerFunc(RateLimit(NewRateLimiter(ctx, 1, time.Minute))(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), RealIP(true))

	send := func(ip string) int {
		r := httptest.NewRequest("POST", "/api/auth/login", nil)
		r.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	if got := send("1.2.3.4"); got != http.StatusOK {
		t.Errorf("first = %d", got)
	}
	if got := send("1.2.3.4"); got != http.StatusTooManyRequests {
		t.Errorf("second = %d, want 429", got)
	}
	if got := send("5.6.7.8"); got != http.StatusOK {
		t.Errorf("other ip = %d", got)
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	if got := getClientIP(r, true); got != "192.0.2.1" {
		t.Errorf("remote addr: %q", got)
	}

	r.RemoteAddr = "[2001:db8::1]:443"
	if got := getClientIP(r, true); got != "2001:db8::1" {
		t.Errorf("ipv6 remote addr: %q", got)
	}

	r.Header.Set("X-Real-IP", "198.51.100.2")
	if got := getClientIP(r, true); got != "198.51.100.2" {
		t.Errorf("x-real-ip: %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := getClientIP(r, true); got != "203.0.113.7" {
		t.Errorf("x-forwarded-for: %q", got)
	}
	if got := getClientIP(r, false); got != "2001:db8::1" {
		t.Errorf("untrusted headers: got %q, want remote addr", got)
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Chain(http.HandlerFunc(RateLimit(NewRateLimiter(ctx, 1, time.Minute))(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), RealIP(false))

	codes := make([]int, 0, 2)
	for _, ip := range []string{"1.2.3.4", "5.6.7.8"} {
		r := httptest.NewRequest("POST", "/api/auth/login", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		r.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

func TestRequestLoggingRecordsRoute(t *testing.T) {
	m := metrics.New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := Chain(mux, RealIP(false), SecurityHeaders, RequestLogging(m))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/games/42", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "GET /api/games/{id}", "404"))
	if got != 1 {
		t.Errorf("request counter = %v, want 1", got)
	}

	// Scrapes are not counted
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/metrics", nil))
	if n := testutil.CollectAndCount(m.HTTPRequests); n != 1 {
		t.Errorf("series = %d, want 1", n)
	}
}

func TestResponseWriterFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	_, _ = rw.Write([]byte("x"))
	rw.Flush()
	if !rec.Flushed {
		t.Error("flush did not reach the underlying writer")
	}
}
