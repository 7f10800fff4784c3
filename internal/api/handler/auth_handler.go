package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/api/metrics"
	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
	"github.com/leadpoint/site-api/internal/infrastructure/session"
)

// SessionIssuer signs session tokens and writes the session cookie.
type SessionIssuer interface {
	CreateToken(claims session.Claims) (string, error)
	SetSessionCookie(c echo.Context, token string)
	ClearSessionCookie(c echo.Context)
}

type AuthHandler struct {
	authService ports.AuthService
	sessions    SessionIssuer
}

func NewAuthHandler(authService ports.AuthService, sessions SessionIssuer) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Login authenticates an admin and sets the session cookie.
//
// @Summary      Login
// @Description  On success the admin_token cookie is set. mustChangePassword is true until the bootstrap password has been rotated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  adminResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	admin, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	token, err := h.sessions.CreateToken(session.Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
		Role:    string(admin.Role),
	})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}
	h.sessions.SetSessionCookie(c, token)
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, adminResponse{Admin: admin, MustChangePassword: admin.MustChangePassword})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// Session returns the identity carried by the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	claims, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		ID:    claims.AdminID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	})
}

// ChangePassword rotates the password of the signed-in admin.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  adminResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, err := currentSession(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	admin, err := h.authService.ChangePassword(c.Request().Context(), claims.AdminID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminResponse{Admin: admin, MustChangePassword: admin.MustChangePassword})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "locked"
	default:
		return "error"
	}
}
