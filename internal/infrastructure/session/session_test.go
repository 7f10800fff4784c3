package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validClaims() Claims {
	return Claims{AdminID: "65f0c0ffee0000000000beef", Email: "ops@example.com", Name: "Ops", Role: "super-admin"}
}

func newManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	if opts.Secret == "" {
		opts.Secret = testSecret
	}
	m, err := NewManager(opts)
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(Options{})
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestCreateAndVerify(t *testing.T) {
	m := newManager(t, Options{})

	token, err := m.CreateToken(validClaims())
	require.NoError(t, err)

	claims, ok := m.VerifyToken(token)
	require.True(t, ok)
	assert.Equal(t, "65f0c0ffee0000000000beef", claims.AdminID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "Ops", claims.Name)
	assert.Equal(t, "super-admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestCreateToken_RequiresEveryClaim(t *testing.T) {
	m := newManager(t, Options{})

	for _, mutate := range []func(*Claims){
		func(c *Claims) { c.AdminID = "" },
		func(c *Claims) { c.Email = "" },
		func(c *Claims) { c.Name = "" },
		func(c *Claims) { c.Role = "" },
	} {
		c := validClaims()
		mutate(&c)
		_, err := m.CreateToken(c)
		assert.ErrorIs(t, err, ErrMissingClaims)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	issued := time.Now().Add(-8 * 24 * time.Hour)
	old := newManager(t, Options{Now: func() time.Time { return issued }})

	token, err := old.CreateToken(validClaims())
	require.NoError(t, err)

	_, ok := newManager(t, Options{}).VerifyToken(token)
	assert.False(t, ok)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := newManager(t, Options{Secret: "some-other-secret-some-other-secret"}).CreateToken(validClaims())
	require.NoError(t, err)

	_, ok := newManager(t, Options{}).VerifyToken(token)
	assert.False(t, ok)
}

func TestVerifyToken_RejectsGarbageAndOtherAlgorithms(t *testing.T) {
	m := newManager(t, Options{})

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, ok := m.VerifyToken(token)
		assert.False(t, ok, token)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok := m.VerifyToken(unsigned)
	assert.False(t, ok)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims()).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, ok = m.VerifyToken(hs512)
	assert.False(t, ok)
}

func TestSessionCookie(t *testing.T) {
	m := newManager(t, Options{Secure: true})
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), rec)
	m.SetSessionCookie(c, "tok")

	header := rec.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, CookieName+"=tok"), header)
	assert.Contains(t, header, "Path=/")
	assert.Contains(t, header, "Max-Age=604800")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=Lax")

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)
	m.ClearSessionCookie(c)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestGetSession(t *testing.T) {
	m := newManager(t, Options{})
	e := echo.New()

	token, err := m.CreateToken(validClaims())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	claims, ok := m.GetSession(e.NewContext(req, httptest.NewRecorder()))
	require.True(t, ok)
	assert.Equal(t, "ops@example.com", claims.Email)

	_, ok = m.GetSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()))
	assert.False(t, ok)
}

func TestContextRoundTrip(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := FromContext(c)
	assert.False(t, ok)

	claims := validClaims()
	WithContext(c, &claims)
	got, ok := FromContext(c)
	require.True(t, ok)
	assert.Equal(t, claims.AdminID, got.AdminID)
}
