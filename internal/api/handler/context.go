package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/middleware"
	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// currentUser extracts the identity injected by the session middleware.
// Its absence means the route was mounted without the middleware, which
// is a wiring bug surfaced as 401 rather than a panic.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return user, nil
}
