package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/metrics"
	"github.com/servicehub/marketplace-api/internal/api/session"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// UserContextKey is where Session stores the resolved *domain.User on
// the echo context.
const UserContextKey = "user"

type sessionError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Session resolves the caller identity from the auth-token cookie and
// injects it into the request context. Absent, invalid, expired and
// orphaned tokens are all answered with the same 401 body.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, ok := session.FromRequest(c.Request())
			if !ok {
				metrics.SessionsResolvedTotal.WithLabelValues("invalid").Inc()
				return c.JSON(http.StatusUnauthorized, sessionError{Message: "not authenticated"})
			}

			user, err := auth.CurrentUser(c.Request().Context(), tok)
			if err != nil {
				metrics.SessionsResolvedTotal.WithLabelValues("invalid").Inc()
				return c.JSON(http.StatusUnauthorized, sessionError{Message: "not authenticated"})
			}

			metrics.SessionsResolvedTotal.WithLabelValues("success").Inc()
			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
