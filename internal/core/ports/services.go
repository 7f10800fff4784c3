package ports

import (
	"context"

	"github.com/leadpoint/site-api/internal/core/domain"
)

// Page is one window of a paginated listing.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
	Pages int
}

type AuthService interface {
	// Login verifies credentials and returns the admin. Callers issue the
	// session themselves.
	Login(ctx context.Context, email, password string) (*domain.Admin, error)
	ChangePassword(ctx context.Context, adminID, current, next string) (*domain.Admin, error)
	Admin(ctx context.Context, adminID string) (*domain.Admin, error)
}

// AdminBootstrapper guarantees the well-known admin account exists.
type AdminBootstrapper interface {
	// EnsureAdminSeeded reports whether it created the account.
	EnsureAdminSeeded(ctx context.Context) (bool, error)
}

type ArticleService interface {
	List(ctx context.Context, q domain.ListQuery) (*Page[domain.Article], error)
	// Get hides unpublished articles unless includeUnpublished is set.
	Get(ctx context.Context, idOrSlug string, includeUnpublished bool) (*domain.Article, error)
	Create(ctx context.Context, ch domain.ArticleChanges) (*domain.Article, error)
	Update(ctx context.Context, id string, ch domain.ArticleChanges) (*domain.Article, error)
	Delete(ctx context.Context, id string) error
}

type JobService interface {
	List(ctx context.Context, q domain.ListQuery) (*Page[domain.Job], error)
	Get(ctx context.Context, idOrSlug string, includeUnpublished bool) (*domain.Job, error)
	Create(ctx context.Context, ch domain.JobChanges) (*domain.Job, error)
	Update(ctx context.Context, id string, ch domain.JobChanges) (*domain.Job, error)
	Delete(ctx context.Context, id string) error
}
