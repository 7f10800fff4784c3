package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/infrastructure/session"
)

// SessionReader resolves the session carried by a request.
type SessionReader interface {
	GetSession(c echo.Context) (*session.Claims, bool)
}

// AdminLookup loads the admin behind a session.
type AdminLookup interface {
	Admin(ctx context.Context, adminID string) (*domain.Admin, error)
}

// OptionalSession injects the session claims when the request carries a
// valid session cookie and lets every request through.
func OptionalSession(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, ok := sessions.GetSession(c); ok {
				session.WithContext(c, claims)
			}
			return next(c)
		}
	}
}

// RequireSession rejects requests without a valid session with 401. An
// expired or forged token is treated exactly like a missing one.
func RequireSession(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := sessions.GetSession(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			session.WithContext(c, claims)
			return next(c)
		}
	}
}

// RequirePasswordRotated blocks admins that still use the bootstrap
// password. It must run after RequireSession.
func RequirePasswordRotated(admins AdminLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := session.FromContext(c)
			if !ok {
				return domain.ErrUnauthorized
			}

			admin, err := admins.Admin(c.Request().Context(), claims.AdminID)
			if err != nil {
				if errors.Is(err, domain.ErrAdminNotFound) {
					return domain.ErrUnauthorized
				}
				return err
			}
			if admin.MustChangePassword {
				return domain.ErrPasswordChangeRequired
			}
			return next(c)
		}
	}
}
