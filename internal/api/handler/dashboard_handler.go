package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

// DashboardHandler serves the per-role dashboard payloads. The real
// dashboard content is presentation glue; these endpoints exist so each
// user type has a protected resource behind the session and role gates.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type dashboardResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
	Section string       `json:"section"`
}

// Customer handles GET /dashboard/customer.
func (h *DashboardHandler) Customer(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Success: true, User: user, Section: "customer"})
}

// Provider handles GET /dashboard/provider.
func (h *DashboardHandler) Provider(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Success: true, User: user, Section: "provider"})
}
