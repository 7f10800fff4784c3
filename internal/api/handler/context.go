package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/infrastructure/session"
)

// currentSession returns the claims injected by the session middleware.
// Handlers behind RequireSession can rely on it; a miss there means the
// route was wired without the middleware.
func currentSession(c echo.Context) (*session.Claims, error) {
	claims, ok := session.FromContext(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// authenticated reports whether the request carries a verified session.
func authenticated(c echo.Context) bool {
	_, ok := session.FromContext(c)
	return ok
}
