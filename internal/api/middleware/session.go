package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// sessionKey is the echo context key the resolved Session is stored under.
const sessionKey = "session"

// Session resolves the caller's session from an optional bearer token and
// stores it in the request context. It never rejects: an absent, expired
// or malformed token simply yields the anonymous session, because reads
// are open to everyone and the authorization gate — not this middleware —
// decides what an anonymous caller may do.
func Session(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(sessionKey, domain.Anonymous)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return next(c)
			}

			userID, _ := claims["user_id"].(string)
			username, _ := claims["username"].(string)
			if userID == "" {
				return next(c)
			}

			c.Set(sessionKey, domain.Session{
				Authenticated: true,
				UserID:        userID,
				Username:      username,
			})
			return next(c)
		}
	}
}

// SessionFromContext returns the session resolved by the Session
// middleware, or the anonymous session when the middleware did not run.
func SessionFromContext(c echo.Context) domain.Session {
	s, _ := c.Get(sessionKey).(domain.Session)
	return s
}

// SetSession injects a session directly into the context. Test helper.
func SetSession(c echo.Context, s domain.Session) {
	c.Set(sessionKey, s)
}
