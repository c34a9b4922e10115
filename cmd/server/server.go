package main

import (
	"techsupport_pro_go/config"
	"techsupport_pro_go/handlers"
	"techsupport_pro_go/middleware"
	"techsupport_pro_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// contactBodyLimit caps request bodies; a contact form never comes close
const contactBodyLimit = "64K"

func newServer(cfg *config.Config, log *zap.Logger, contact *services.ContactService, consent *services.ConsentService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.JSONErrorHandler(log)

	// Runs first so every response, including recovered panics, carries the header
	e.Use(middleware.AllowedOrigin(cfg.AllowedOrigin))

	httpLog := log.Named("http")
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				httpLog.Warn("request", append(fields, zap.Error(v.Error))...)
			} else {
				httpLog.Info("request", fields...)
			}
			return nil
		},
	}))
	// Metrics wrap Recover so panicking requests are still measured
	e.Use(middleware.RequestMetrics())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomiddleware.BodyLimit(contactBodyLimit))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.Locale(cfg))

	contactHandler := handlers.NewContactHandler(contact)
	consentHandler := handlers.NewConsentHandler(consent, log)

	api := e.Group("/api")
	api.POST("/contact", contactHandler.Submit, middleware.PublicFormRateLimiter.Middleware())
	api.GET("/consent", consentHandler.Get)
	api.POST("/consent", consentHandler.Post)

	e.GET("/healthz", handlers.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Static assets and the pre-built site
	e.Static("/static", "static")
	e.Static("/", cfg.PublicDir)

	return e
}
