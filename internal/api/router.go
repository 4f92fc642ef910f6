package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/bazaar/marketplace-api/internal/api/handler"
	"github.com/bazaar/marketplace-api/internal/api/middleware"
	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/infrastructure/http/handlers"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Auth          ports.AuthService
	Products      ports.ProductService
	Vendors       ports.VendorService
	Notifications ports.NotificationService
	Tokens        ports.TokenVerifier

	// Health maps dependency names to readiness checks.
	Health map[string]handlers.Pinger
	Logger zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// The request logger resolves errors to responses, so it sits inside the
	// metrics middleware for status labels to match what the client saw.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(requestLogger(d.Logger))

	// --- Operational endpoints (no auth required) ---
	health := handlers.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	authH := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.GET("/profile", authH.Profile, middleware.Protect(d.Tokens)...)

	// --- Catalogue ---
	productH := handler.NewProductHandler(d.Products)
	sellers := middleware.Protect(d.Tokens, domain.RoleVendor, domain.RoleAdmin)
	e.GET("/categories", productH.Categories)
	products := e.Group("/products")
	products.GET("", productH.List)
	products.POST("", productH.Create, sellers...)
	products.GET("/slug/:slug", productH.GetBySlug)
	products.GET("/:id", productH.Get)
	products.PATCH("/:id", productH.Update, sellers...)
	products.DELETE("/:id", productH.Delete, sellers...)

	// --- Admin ---
	vendorH := handler.NewVendorHandler(d.Vendors)
	admin := e.Group("/admin", middleware.Protect(d.Tokens, domain.RoleAdmin)...)
	admin.GET("/vendors/pending", vendorH.ListPending)
	admin.POST("/vendors/:id/approve", vendorH.Approve)

	// --- Notifications ---
	notificationH := handler.NewNotificationHandler(d.Notifications)
	e.GET("/notifications", notificationH.List, middleware.Protect(d.Tokens)...)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
