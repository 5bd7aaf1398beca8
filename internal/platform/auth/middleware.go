package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ClaimsKey is the echo context key under which verified session claims
// are stored.
const ClaimsKey = "session_claims"

// Middleware returns echo middleware that rejects requests without a valid
// Bearer session token.
func Middleware(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header must be a bearer token")
			}

			claims, err := m.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session is expired or revoked")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the verified claims set by Middleware, or nil.
func ClaimsFromContext(c echo.Context) *Claims {
	claims, _ := c.Get(ClaimsKey).(*Claims)
	return claims
}
