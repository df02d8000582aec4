package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"pharmacy-backend/internal/config"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWT validates the Authorization bearer token and stores the caller's user
// id and role on the echo context.
func JWT(authCfg *config.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(authCfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			sub, _ := claims["sub"].(string)
			userID, err := strconv.ParseUint(sub, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
			}

			role, _ := claims["role"].(string)

			c.Set(ContextUserID, uint(userID))
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// RequireAdmin gates a route group to admin callers; must run after JWT.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role, _ := c.Get(ContextRole).(string); role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// UserID pulls the authenticated user id off the context.
func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserID).(uint)
	return id
}
