package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OTelStatus creates middleware that wraps each request in a span and sets
// span status from the HTTP response code.
// It follows the OpenTelemetry HTTP semantic conventions:
// - 1xx, 2xx, 3xx, 4xx: StatusCode = Unset (normal operation or client error)
// - 5xx: StatusCode = Error (server error)
func OTelStatus() echo.MiddlewareFunc {
	tracer := otel.Tracer("embedding-indexer")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, span := tracer.Start(req.Context(), req.Method+" "+c.Path())
			defer span.End()

			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			status := c.Response().Status
			if err != nil {
				// Echo resolves the error after the middleware chain, so
				// read the eventual status off the error itself.
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
				span.RecordError(err)
			}

			span.SetAttributes(
				semconv.HTTPRequestMethodKey.String(req.Method),
				semconv.HTTPRouteKey.String(c.Path()),
				semconv.HTTPResponseStatusCode(status),
			)
			if status >= 500 {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			return err
		}
	}
}
