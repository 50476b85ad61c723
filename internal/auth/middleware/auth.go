package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// ServiceContextKey is the key for storing the calling service identity in request context
const ServiceContextKey contextKey = "service"

var (
	errMissingToken = errors.New("missing service token")
	errInvalidToken = errors.New("invalid service token")
)

// ServiceClaims are the claims service tokens carry. Subject names the
// calling service.
type ServiceClaims struct {
	jwt.RegisteredClaims
}

// AuthMiddleware validates service-to-service tokens. An empty secret
// disables authentication entirely, which is the expected mode when the
// service only listens inside the cluster network.
type AuthMiddleware struct {
	secret []byte
	logger *slog.Logger
}

func NewAuthMiddleware(serviceTokenSecret string, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	if serviceTokenSecret == "" {
		logger.Warn("SERVICE_TOKEN_SECRET not set, service auth disabled")
	}
	return &AuthMiddleware{
		secret: []byte(serviceTokenSecret),
		logger: logger,
	}
}

// Enabled reports whether requests will actually be checked.
func (m *AuthMiddleware) Enabled() bool {
	return len(m.secret) > 0
}

func (m *AuthMiddleware) RequireServiceAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.Enabled() {
				return next(c)
			}

			claims, err := m.validateToken(c)
			if err != nil {
				if errors.Is(err, errMissingToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
				}
				m.logger.Warn("rejected service token", "err", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid service token")
			}

			ctx := context.WithValue(c.Request().Context(), ServiceContextKey, claims.Subject)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func (m *AuthMiddleware) validateToken(c echo.Context) (*ServiceClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingToken
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	parsed, err := jwt.ParseWithClaims(tokenString, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*ServiceClaims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}
