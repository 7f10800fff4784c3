package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/infrastructure/session"
)

// RequireRole allows only sessions whose role is listed. It must run after
// RequireSession.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := session.FromContext(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if _, ok := allowed[claims.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
