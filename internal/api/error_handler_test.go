package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/leadpoint/site-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", domain.MissingFields("title", "content"), http.StatusBadRequest, `{"error":"missing required fields: title, content","fields":["title","content"]}`},
		{"article not found", fmt.Errorf("find: %w", domain.ErrArticleNotFound), http.StatusNotFound, `{"error":"Article not found"}`},
		{"job not found", domain.ErrJobNotFound, http.StatusNotFound, `{"error":"Job not found"}`},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"invalid credentials"}`},
		{"rotation", domain.ErrPasswordChangeRequired, http.StatusForbidden, `{"error":"password change required"}`},
		{"slug taken", domain.ErrSlugTaken, http.StatusConflict, `{"error":"slug already in use","fields":["slug"]}`},
		{"locked out", domain.ErrTooManyAttempts, http.StatusTooManyRequests, `{"error":"too many login attempts, try again later"}`},
		{"database down", fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, errors.New("dial tcp: refused")), http.StatusServiceUnavailable, `{"error":"service temporarily unavailable"}`},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, `{"error":"invalid payload"}`},
		{"unexpected", errors.New("boom: connection string mongodb://secret@host"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/articles", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if got := rec.Body.String(); got != tc.wantBody+"\n" {
				t.Fatalf("unexpected body: %s", got)
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponses(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrJobNotFound, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was overwritten: %d %q", rec.Code, rec.Body.String())
	}
}
