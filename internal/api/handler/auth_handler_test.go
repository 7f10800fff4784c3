package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/infrastructure/session"
)

type stubAuthService struct {
	loginFn          func(ctx context.Context, email, password string) (*domain.Admin, error)
	changePasswordFn func(ctx context.Context, adminID, current, next string) (*domain.Admin, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, adminID, current, next string) (*domain.Admin, error) {
	return s.changePasswordFn(ctx, adminID, current, next)
}

func (s *stubAuthService) Admin(context.Context, string) (*domain.Admin, error) {
	return nil, domain.ErrAdminNotFound
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(session.Options{Secret: "test-secret-test-secret-test-secret"})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return m
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

var seededAdmin = &domain.Admin{
	ID:                 "65f0c0ffee0000000000beef",
	Email:              "admin@example.com",
	Name:               "Site Administrator",
	Role:               domain.RoleSuperAdmin,
	MustChangePassword: true,
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	sessions := newTestSessions(t)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*domain.Admin, error) {
			if email != "admin@example.com" || password != "bootstrap-secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return seededAdmin, nil
		},
	}
	handler := NewAuthHandler(stub, sessions)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"bootstrap-secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["mustChangePassword"] != true {
		t.Fatalf("expected mustChangePassword=true, got %v", resp["mustChangePassword"])
	}
	admin, ok := resp["admin"].(map[string]any)
	if !ok || admin["email"] != "admin@example.com" {
		t.Fatalf("unexpected admin payload: %v", resp["admin"])
	}
	if _, leaked := admin["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName || !cookies[0].HttpOnly {
		t.Fatalf("expected an http-only session cookie, got %+v", cookies)
	}
	claims, ok := sessions.VerifyToken(cookies[0].Value)
	if !ok || claims.AdminID != seededAdmin.ID || claims.Role != string(domain.RoleSuperAdmin) {
		t.Fatalf("cookie does not carry a valid session: %+v", claims)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Admin, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, newTestSessions(t))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"nope"}`), rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie expected on failed login")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, newTestSessions(t))

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":`), httptest.NewRecorder())

	var he *echo.HTTPError
	if err := handler.Login(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, newTestSessions(t))

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`), httptest.NewRecorder())

	var ve *domain.ValidationError
	if err := handler.Login(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 || ve.Fields[0] != "email" || ve.Fields[1] != "password" {
		t.Fatalf("unexpected fields: %v", ve.Fields)
	}
	if !strings.Contains(ve.Error(), "password is required") {
		t.Fatalf("unexpected message: %s", ve.Error())
	}
}

// ---------------------------------------------------------------------------
// Logout / Session / ChangePassword
// ---------------------------------------------------------------------------

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, newTestSessions(t))

	rec := httptest.NewRecorder()
	if err := handler.Logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring session cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, newTestSessions(t))

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), httptest.NewRecorder())
	if err := handler.Session(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without a session, got %v", err)
	}

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), rec)
	session.WithContext(c, &session.Claims{AdminID: "a1", Email: "admin@example.com", Name: "Admin", Role: "super-admin"})
	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"email":"admin@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, adminID, current, next string) (*domain.Admin, error) {
			if adminID != "a1" || current != "bootstrap-secret" || next != "a much longer passphrase" {
				t.Fatalf("unexpected args: %s %s %s", adminID, current, next)
			}
			return &domain.Admin{ID: adminID, Email: "admin@example.com"}, nil
		},
	}
	handler := NewAuthHandler(stub, newTestSessions(t))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/password", `{"currentPassword":"bootstrap-secret","newPassword":"a much longer passphrase"}`), rec)
	session.WithContext(c, &session.Claims{AdminID: "a1", Email: "admin@example.com", Name: "Admin", Role: "super-admin"})

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"mustChangePassword":false`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
