package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servicehub/marketplace-api/internal/api/handler"
	"github.com/servicehub/marketplace-api/internal/api/middleware"
	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
	"github.com/servicehub/marketplace-api/internal/core/service"
	"github.com/servicehub/marketplace-api/internal/infrastructure/http/handlers"
	"github.com/servicehub/marketplace-api/internal/token"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. db and rdb may be nil when the corresponding backend is
// not configured; the readiness probe skips absent dependencies.
func NewRouter(directory ports.UserDirectory, codec *token.Codec, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	authService := service.NewAuthService(directory, codec)
	authHandler := handler.NewAuthHandler(authService)
	dashboardHandler := handler.NewDashboardHandler()
	sessionMiddleware := middleware.Session(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, sessionMiddleware)

	// --- Dashboards (session + role gated) ---
	e.GET("/dashboard/customer", dashboardHandler.Customer,
		sessionMiddleware, middleware.RequireUserType(domain.TypeCustomer))
	e.GET("/dashboard/provider", dashboardHandler.Provider,
		sessionMiddleware, middleware.RequireUserType(domain.TypeProvider))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
