package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/servicehub/marketplace-api/internal/api/metrics"
	"github.com/servicehub/marketplace-api/internal/api/session"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
	Name     string `json:"name" validate:"required"`
	UserType string `json:"userType" validate:"required,oneof=customer provider"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the uniform envelope for every auth endpoint.
type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

func failure(c echo.Context, status int, message string) error {
	return c.JSON(status, authResponse{Success: false, Message: message})
}

// userTypeLabel keeps the metric label set bounded: anything outside the
// two known kinds is recorded as "".
func userTypeLabel(raw string) string {
	if t := domain.UserType(raw); t.Valid() {
		return raw
	}
	return ""
}

// Register creates a new user account and starts its session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      500   {object}  authResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid", userTypeLabel(req.UserType)).Inc()
		return failure(c, http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	user, tok, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		UserType: domain.UserType(req.UserType),
		Phone:    req.Phone,
	})
	metrics.RegisterDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		switch err {
		case domain.ErrEmailTaken:
			metrics.RegistrationsTotal.WithLabelValues("email_conflict", userTypeLabel(req.UserType)).Inc()
			return failure(c, http.StatusBadRequest, err.Error())
		case domain.ErrPhoneTaken:
			metrics.RegistrationsTotal.WithLabelValues("phone_conflict", userTypeLabel(req.UserType)).Inc()
			return failure(c, http.StatusBadRequest, err.Error())
		case domain.ErrInvalidUserType:
			metrics.RegistrationsTotal.WithLabelValues("invalid", userTypeLabel(req.UserType)).Inc()
			return failure(c, http.StatusBadRequest, err.Error())
		default:
			metrics.RegistrationsTotal.WithLabelValues("error", userTypeLabel(req.UserType)).Inc()
			return err
		}
	}

	metrics.RegistrationsTotal.WithLabelValues("success", userTypeLabel(req.UserType)).Inc()
	c.SetCookie(session.NewCookie(tok))
	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "registration successful",
		User:    user,
		Token:   tok,
	})
}

// Login authenticates a user and starts a fresh session. Unknown email
// and wrong password answer with the exact same body.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return failure(c, http.StatusBadRequest, err.Error())
	}

	user, tok, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return failure(c, http.StatusUnauthorized, err.Error())
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(session.NewCookie(tok))
	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "login successful",
		User:    user,
		Token:   tok,
	})
}

// Me returns the identity behind the session cookie. The session
// middleware has already resolved and injected the user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  authResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, User: user})
}

// Logout clears the session cookie. The token itself stays valid until
// its natural expiry; there is no server-side revocation.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(session.ClearCookie())
	return c.JSON(http.StatusOK, authResponse{Success: true, Message: "logged out"})
}
