package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	// ErrMissingKey indicates no API key was supplied with the request.
	ErrMissingKey = errors.New("missing api key")

	// ErrInvalidKey indicates the provided key does not match the configured hash.
	ErrInvalidKey = errors.New("invalid api key")
)

// HashKey returns the hex-encoded SHA-256 digest of a raw API key. The raw
// key material is never stored or logged; only the digest is compared.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// VerifyKey compares a raw API key against a stored hex-encoded SHA-256 hash
// in constant time.
func VerifyKey(raw, storedHash string) error {
	if raw == "" {
		return ErrMissingKey
	}
	computed := HashKey(raw)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(storedHash))) != 1 {
		return ErrInvalidKey
	}
	return nil
}

// extractKey pulls the API key from the Authorization header (Bearer scheme)
// or the X-API-Key header.
func extractKey(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
}

// APIKeyMiddleware returns echo middleware that authenticates requests
// against a single configured key hash. When no hash is configured (local
// development), authentication is disabled.
func APIKeyMiddleware(keyHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if keyHash == "" {
				return next(c)
			}

			if err := VerifyKey(extractKey(c), keyHash); err != nil {
				status := http.StatusUnauthorized
				return echo.NewHTTPError(status, map[string]string{
					"error": err.Error(),
				})
			}

			return next(c)
		}
	}
}
