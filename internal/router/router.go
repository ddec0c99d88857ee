package router

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"pizzaservice/internal/auth"
	"pizzaservice/internal/config"
	apperrors "pizzaservice/internal/errors"
	"pizzaservice/internal/handler"
	"pizzaservice/internal/metrics"
	"pizzaservice/internal/middleware"
)

// Deps bundles what Register needs to build the HTTP surface.
type Deps struct {
	Config      *config.Config
	Logger      *slog.Logger
	Resolver    *auth.Resolver
	Recorder    metrics.Recorder
	Gatherer    prometheus.Gatherer
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := d.Recorder
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.RequestMetrics(recorder))
	e.Use(middleware.AuthResolver(d.Resolver, logger))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(d.Gatherer)))
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	if d.Config != nil && d.Config.AuthRateLimit > 0 {
		authGroup.Use(echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
			Store: echomw.NewRateLimiterMemoryStore(rate.Limit(d.Config.AuthRateLimit)),
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
					Error: "too many requests",
					Code:  "RATE_LIMITED",
				})
			},
		}))
	}

	// Public routes
	authGroup.POST("", d.AuthHandler.Register)
	authGroup.PUT("", d.AuthHandler.Login)

	// Routes that need a resolved identity
	authGroup.DELETE("", d.AuthHandler.Logout, middleware.RequireAuth())
	authGroup.PUT("/chaos/:state", d.AuthHandler.SetChaos, middleware.RequireAuth())
	authGroup.PUT("/:userId", d.AuthHandler.UpdateUser, middleware.RequireAuth())

	api.GET("/user/me", d.UserHandler.Me, middleware.RequireAuth())
}
