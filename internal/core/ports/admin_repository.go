package ports

import (
	"context"
	"time"

	"github.com/leadpoint/site-api/internal/core/domain"
)

// AdminRepository defines persistence operations for admin accounts.
type AdminRepository interface {
	// FindByEmail expects an already normalized address.
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
	// Create assigns the ID. Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, admin *domain.Admin) error
	UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool, at time.Time) error
}

// LoginLimiter tracks failed logins per account.
type LoginLimiter interface {
	// Allow returns domain.ErrTooManyAttempts while the account is locked.
	Allow(ctx context.Context, email string) error
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
