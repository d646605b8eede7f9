package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTokenBucket_Allow(t *testing.T) {
	b := newTokenBucket(10, 3)

	for i := 0; i < 3; i++ {
		if !b.allow() {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	// Bucket drained; the next request is rejected (refill at 10/s cannot
	// restore a full token this fast).
	if b.allow() {
		t.Error("request beyond burst should be rejected")
	}
}

func TestTokenBucket_RetryAfter(t *testing.T) {
	b := newTokenBucket(1, 1)
	b.allow()

	if ra := b.retryAfter(); ra < 1 {
		t.Errorf("retryAfter = %d, want >= 1", ra)
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	do := func() (int, http.Header) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := handler(c)
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				return he.Code, rec.Header()
			}
			t.Fatalf("unexpected error: %v", err)
		}
		return rec.Code, rec.Header()
	}

	for i := 0; i < 2; i++ {
		if code, _ := do(); code != http.StatusOK {
			t.Fatalf("request %d: code = %d, want 200", i+1, code)
		}
	}

	code, header := do()
	if code != http.StatusTooManyRequests {
		t.Fatalf("exhausted bucket: code = %d, want 429", code)
	}
	if header.Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}
}

func TestRateLimit_SeparateClients(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	do := func(addr string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		return handler(e.NewContext(req, rec))
	}

	if err := do("10.0.0.1:1234"); err != nil {
		t.Fatalf("first client: %v", err)
	}
	if err := do("10.0.0.1:1234"); err == nil {
		t.Fatal("first client should now be limited")
	}
	if err := do("10.0.0.2:1234"); err != nil {
		t.Errorf("second client must have its own bucket: %v", err)
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Fresh ID minted when the caller sends none.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request ID on the response")
	}

	// Caller-supplied ID propagated.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want caller-supplied abc-123", got)
	}
}
