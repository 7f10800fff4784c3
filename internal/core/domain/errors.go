package domain

import (
	"errors"
	"strings"
)

var (
	ErrArticleNotFound        = errors.New("article not found")
	ErrJobNotFound            = errors.New("job not found")
	ErrAdminNotFound          = errors.New("admin not found")
	ErrSlugTaken              = errors.New("slug already in use")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrPasswordChangeRequired = errors.New("password change required")
	ErrTooManyAttempts        = errors.New("too many login attempts")
	ErrDatabaseUnavailable    = errors.New("database unavailable")
)

// ValidationError reports which input fields were missing or rejected.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// MissingFields returns a ValidationError naming the absent fields, or nil
// when fields is empty.
func MissingFields(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// InvalidField returns a ValidationError for a single rejected value.
func InvalidField(field, reason string) error {
	return &ValidationError{Fields: []string{field}, Reason: reason}
}
