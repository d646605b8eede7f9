package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHashKey(t *testing.T) {
	h := HashKey("test-key")
	if len(h) != 64 {
		t.Fatalf("expected 64-char hex digest, got %d chars", len(h))
	}
	if h != HashKey("test-key") {
		t.Error("expected HashKey to be deterministic")
	}
	if h == HashKey("other-key") {
		t.Error("expected different keys to produce different hashes")
	}
}

func TestVerifyKey(t *testing.T) {
	hash := HashKey("secret-123")

	tests := []struct {
		name    string
		raw     string
		hash    string
		wantErr error
	}{
		{"valid key", "secret-123", hash, nil},
		{"wrong key", "secret-456", hash, ErrInvalidKey},
		{"empty key", "", hash, ErrMissingKey},
		{"uppercase stored hash", "secret-123", stringsUpper(hash), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyKey(tt.raw, tt.hash)
			if err != tt.wantErr {
				t.Errorf("VerifyKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func stringsUpper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'f' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

func TestAPIKeyMiddleware(t *testing.T) {
	hash := HashKey("pipeline-key")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	tests := []struct {
		name       string
		keyHash    string
		authHeader string
		apiKeyHdr  string
		wantStatus int
	}{
		{"no hash configured allows all", "", "", "", http.StatusOK},
		{"valid bearer token", hash, "Bearer pipeline-key", "", http.StatusOK},
		{"valid x-api-key header", hash, "", "pipeline-key", http.StatusOK},
		{"wrong key rejected", hash, "Bearer wrong-key", "", http.StatusUnauthorized},
		{"missing key rejected", hash, "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			if tt.apiKeyHdr != "" {
				req.Header.Set("X-API-Key", tt.apiKeyHdr)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := APIKeyMiddleware(tt.keyHash)
			err := mw(handler)(c)

			status := rec.Code
			if err != nil {
				var he *echo.HTTPError
				if !errors.As(err, &he) {
					t.Fatalf("unexpected error type: %v", err)
				}
				status = he.Code
			}
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
		})
	}
}
