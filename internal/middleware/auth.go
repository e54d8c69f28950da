package middleware

import (
	"net/http"
	"strings"

	"dealership-service/internal/handler"
	"dealership-service/pkg/jwtutil"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ContextUserKey is the Echo context key the verified claims are stored
// under.
const ContextUserKey = "user"

// Auth returns the authentication gate. Required and optional mode
// share this one verification routine: the only difference is that the
// optional gate lets a request without a credential through anonymously.
// A presented credential is always verified, in both modes.
func Auth(jwt *jwtutil.JWTUtil, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if !required {
					return next(c)
				}
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_token")
				return handler.Fail(c, http.StatusUnauthorized, "Требуется авторизация")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return handler.Fail(c, http.StatusUnauthorized, "Недействительный токен")
			}

			claims, err := jwt.ValidateToken(parts[1])
			if err != nil {
				if err == jwtutil.ErrTokenExpired {
					log.Warn("Expired token")
					prometheus.RecordAuthError("token_expired")
					return handler.Fail(c, http.StatusUnauthorized, "Срок действия токена истёк")
				}
				log.Warn("Invalid token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return handler.Fail(c, http.StatusUnauthorized, "Недействительный токен")
			}

			c.Set(ContextUserKey, claims)
			log.Debug("JWT token validated",
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role))

			return next(c)
		}
	}
}

// RequireRoles returns the role gate. It expects a verified identity in
// the context (the Auth gate runs first) and rejects with 403 unless
// the identity's role is in the allowed set.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ContextUserKey).(*jwtutil.UserClaims)
			if !ok {
				prometheus.RecordAuthError("missing_token")
				return handler.Fail(c, http.StatusUnauthorized, "Требуется авторизация")
			}

			if !allowed[claims.Role] {
				logger.FromContext(c).Warn("Role denied",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role))
				prometheus.RecordAuthError("role_denied")
				return handler.Fail(c, http.StatusForbidden, "Доступ запрещён")
			}

			return next(c)
		}
	}
}
