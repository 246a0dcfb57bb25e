package apikeys

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// apiKeyContextKey is the Echo context key for the authenticated API key.
const apiKeyContextKey = "api_key"

// rateLimitPerMinute is the fixed-window request budget per key.
const rateLimitPerMinute = 120

// GetAPIKey retrieves the authenticated API key from the request context.
// Returns nil when the request was authenticated with the admin token.
func GetAPIKey(c echo.Context) *APIKey {
	key, _ := c.Get(apiKeyContextKey).(*APIKey)
	return key
}

// RequireAPIKey returns middleware that authenticates requests via a
// Bearer API key. When adminToken is non-empty, a matching bearer value is
// also accepted; this bootstraps key management before any key exists.
func RequireAPIKey(service KeyService, adminToken string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "api key required")
			}

			rawKey := strings.TrimPrefix(authHeader, "Bearer ")
			if rawKey == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format, use: Bearer <key>")
			}

			if adminToken != "" &&
				subtle.ConstantTimeCompare([]byte(rawKey), []byte(adminToken)) == 1 {
				return next(c)
			}

			key, err := service.AuthenticateKey(c.Request().Context(), rawKey)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid api key")
			}

			c.Set(apiKeyContextKey, key)
			return next(c)
		}
	}
}

// rateLimiter tracks per-key request counts using a fixed window.
type rateLimiter struct {
	mu      sync.Mutex
	windows map[int]*rateLimitWindow // Keyed by API key ID.
}

// rateLimitWindow tracks requests in the current minute.
type rateLimitWindow struct {
	count   int
	resetAt time.Time
}

// globalRateLimiter is the singleton rate limiter instance.
var globalRateLimiter = &rateLimiter{
	windows: make(map[int]*rateLimitWindow),
}

// RateLimit returns middleware that enforces per-key request rate limits.
// Uses a simple fixed-window counter per minute. Admin-token requests are
// not limited.
func RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := GetAPIKey(c)
			if key == nil {
				return next(c)
			}

			globalRateLimiter.mu.Lock()
			window, exists := globalRateLimiter.windows[key.ID]
			now := time.Now()

			if !exists || now.After(window.resetAt) {
				window = &rateLimitWindow{
					count:   0,
					resetAt: now.Add(time.Minute),
				}
				globalRateLimiter.windows[key.ID] = window
			}

			window.count++
			remaining := rateLimitPerMinute - window.count
			globalRateLimiter.mu.Unlock()

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimitPerMinute))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))

			if remaining < 0 {
				c.Response().Header().Set("Retry-After", "60")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
