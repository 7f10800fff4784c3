package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

const defaultAdminName = "Site Administrator"

// BootstrapConfig names the well-known admin account. Password is the
// one-time credential the operator must rotate on first login.
type BootstrapConfig struct {
	Email    string
	Name     string
	Password string
}

// Bootstrap seeds the administrative account.
type Bootstrap struct {
	repo ports.AdminRepository
	cfg  BootstrapConfig
	log  zerolog.Logger
	now  func() time.Time
}

func NewBootstrap(repo ports.AdminRepository, cfg BootstrapConfig, log zerolog.Logger) *Bootstrap {
	return &Bootstrap{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// EnsureAdminSeeded creates the admin when no account uses the configured
// email and does nothing otherwise. Losing a creation race to another
// process counts as already seeded.
func (b *Bootstrap) EnsureAdminSeeded(ctx context.Context) (bool, error) {
	email := domain.NormalizeEmail(b.cfg.Email)
	if email == "" || b.cfg.Password == "" {
		return false, errors.New("bootstrap admin email and password are required")
	}

	_, err := b.repo.FindByEmail(ctx, email)
	if err == nil {
		b.log.Debug().Str("email", email).Msg("bootstrap admin already present")
		return false, nil
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		return false, fmt.Errorf("look up bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(b.cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash bootstrap password: %w", err)
	}

	name := b.cfg.Name
	if name == "" {
		name = defaultAdminName
	}
	now := b.now().UTC()
	admin := &domain.Admin{
		Email:              email,
		PasswordHash:       string(hash),
		Name:               name,
		Role:               domain.RoleSuperAdmin,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := b.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}

	b.log.Info().Str("email", email).Str("admin_id", admin.ID).Msg("bootstrap admin created, password change required on first login")
	return true, nil
}
