package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return h
})

// AuthService implements admin login and password rotation.
type AuthService struct {
	repo    ports.AdminRepository
	limiter ports.LoginLimiter
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService returns an AuthService. A nil limiter disables lockout.
func NewAuthService(repo ports.AdminRepository, limiter ports.LoginLimiter, log zerolog.Logger) *AuthService {
	if limiter == nil {
		limiter = NopLoginLimiter{}
	}
	return &AuthService{repo: repo, limiter: limiter, log: log, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Allow(ctx, email); err != nil {
		if errors.Is(err, domain.ErrTooManyAttempts) {
			s.log.Warn().Str("email", email).Msg("login blocked, account locked")
			return nil, err
		}
		s.log.Warn().Err(err).Msg("login limiter unavailable, continuing")
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrAdminNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}
	s.log.Info().Str("admin_id", admin.ID).Bool("must_change_password", admin.MustChangePassword).Msg("admin logged in")
	return admin, nil
}

// ChangePassword verifies the current password, stores the new hash and
// lifts the forced-rotation flag.
func (s *AuthService) ChangePassword(ctx context.Context, adminID, current, next string) (*domain.Admin, error) {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("change password: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(next) < domain.MinPasswordLength {
		return nil, domain.InvalidField("newPassword", fmt.Sprintf("newPassword must be at least %d characters", domain.MinPasswordLength))
	}
	if next == current {
		return nil, domain.InvalidField("newPassword", "newPassword must differ from the current password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	if err := s.repo.UpdatePassword(ctx, admin.ID, string(hash), false, now); err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	admin.PasswordHash = string(hash)
	admin.MustChangePassword = false
	admin.UpdatedAt = now
	s.log.Info().Str("admin_id", admin.ID).Msg("admin password rotated")
	return admin, nil
}

func (s *AuthService) Admin(ctx context.Context, adminID string) (*domain.Admin, error) {
	return s.repo.FindByID(ctx, adminID)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

// NopLoginLimiter never locks an account.
type NopLoginLimiter struct{}

func (NopLoginLimiter) Allow(context.Context, string) error { return nil }
func (NopLoginLimiter) RecordFailure(context.Context, string) error { return nil }
func (NopLoginLimiter) Reset(context.Context, string) error { return nil }
