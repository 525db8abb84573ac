package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuth is the server-side "requires auth" route marker. It
// fast-fails unauthenticated callers with 401 before the handler runs.
// The authorization gate still makes the authoritative per-operation
// decision (including post authorship) behind it.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFromContext(c).Authenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
