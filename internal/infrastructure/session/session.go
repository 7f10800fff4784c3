// Package session issues and verifies admin session tokens and carries them
// in an HTTP-only cookie.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "admin_token"
	DefaultTTL = 7 * 24 * time.Hour

	contextKey = "session"
)

var (
	ErrMissingSecret = errors.New("session: secret is required")
	ErrMissingClaims = errors.New("session: id, email, name and role are required")
)

// Claims identifies the admin behind a session.
type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type Options struct {
	Secret string
	// Secure marks the cookie HTTPS-only. Enable in production.
	Secure bool
	// TTL defaults to DefaultTTL.
	TTL time.Duration
	Now func() time.Time
}

// Manager signs tokens with HS256 using a server-side secret. There is no
// revocation list: a token stays valid until it expires.
type Manager struct {
	secret []byte
	secure bool
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Secret == "" {
		return nil, ErrMissingSecret
	}
	m := &Manager{
		secret: []byte(opts.Secret),
		secure: opts.Secure,
		ttl:    opts.TTL,
		now:    opts.Now,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}

// CreateToken signs the identity fields of c. Registered claims on c are
// ignored; issued-at and expiry are set here.
func (m *Manager) CreateToken(c Claims) (string, error) {
	if c.AdminID == "" || c.Email == "" || c.Name == "" || c.Role == "" {
		return "", ErrMissingClaims
	}

	now := m.now()
	claims := Claims{
		AdminID: c.AdminID,
		Email:   c.Email,
		Name:    c.Name,
		Role:    c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.AdminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyToken returns the claims of a valid token. Any failure, whether a
// bad signature, expiry or malformed input, reads as "no session".
func (m *Manager) VerifyToken(token string) (*Claims, bool) {
	if token == "" {
		return nil, false
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return nil, false
	}
	if claims.AdminID == "" || claims.Email == "" || claims.Role == "" {
		return nil, false
	}
	return &claims, true
}

// GetSession reads and verifies the session cookie of the request.
func (m *Manager) GetSession(c echo.Context) (*Claims, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	return m.VerifyToken(cookie.Value)
}

func (m *Manager) SetSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		Expires:  m.now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithContext stores verified claims on the request context.
func WithContext(c echo.Context, claims *Claims) {
	c.Set(contextKey, claims)
}

// FromContext returns claims stored by WithContext.
func FromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(contextKey).(*Claims)
	return claims, ok && claims != nil
}
