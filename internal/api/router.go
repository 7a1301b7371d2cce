package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/portal-users/docs"
	"github.com/99minutos/portal-users/internal/api/handler"
	"github.com/99minutos/portal-users/internal/api/middleware"
	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Users  ports.UserService
	Auth   ports.AuthService
	Logger zerolog.Logger
	// Readiness lists the pings behind GET /health/ready, keyed by name.
	Readiness map[string]handler.PingFunc
	// Registerer and Gatherer back the HTTP metrics. Default to the global
	// Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	log := deps.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal_users",
		Registerer: deps.Registerer,
	}))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(deps.Users)
	authHandler := handler.NewAuthHandler(deps.Auth)
	requireAuth := middleware.Auth(deps.Auth)

	// --- User routes ---
	e.POST("/user", userHandler.Create)

	users := e.Group("/user", requireAuth)
	users.GET("", userHandler.Get)
	users.PATCH("", userHandler.Update)
	users.DELETE("", userHandler.Delete)

	privileges := users.Group("/admin_privilege", middleware.RBAC(domain.RoleSuperadmin))
	privileges.PATCH("", userHandler.GrantAdmin)
	privileges.DELETE("", userHandler.RevokeAdmin)

	// --- Login routes ---
	e.POST("/login/token", authHandler.Login)
	e.POST("/login/logout", authHandler.Logout, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
