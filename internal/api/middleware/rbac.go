package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// RequireUserType gates a route to the given account kinds. Must run
// after Session, which injects the user.
func RequireUserType(allowed ...domain.UserType) echo.MiddlewareFunc {
	types := make(map[domain.UserType]struct{}, len(allowed))
	for _, t := range allowed {
		types[t] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, sessionError{Message: "not authenticated"})
			}
			if _, ok := types[user.UserType]; !ok {
				return c.JSON(http.StatusForbidden, sessionError{Message: "forbidden"})
			}
			return next(c)
		}
	}
}
