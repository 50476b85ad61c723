package bootstrap

import (
	"log/slog"

	authmw "embedding-indexer/internal/auth/middleware"
	appmw "embedding-indexer/middleware"
	"embedding-indexer/rest"
	appOtel "embedding-indexer/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// newEchoServer wires the HTTP routes. Mutating endpoints sit behind
// service-token auth; the health probe stays open.
func newEchoServer(handler *rest.Handler, auth *authmw.AuthMiddleware, otelCfg appOtel.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if otelCfg.Enabled {
		e.Use(appmw.OTelStatus())
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.GET("/health", handler.Health)

	v1 := e.Group("/v1", auth.RequireServiceAuth())
	v1.POST("/documents", handler.UpsertDocument)
	v1.POST("/collections", handler.ProvisionCollection)
	v1.GET("/collections/:name/stats", handler.CollectionStats)

	return e
}
