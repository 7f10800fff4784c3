package ports

import (
	"context"

	"github.com/leadpoint/site-api/internal/core/domain"
)

// ArticleRepository defines persistence operations for articles.
// Lookups return domain.ErrArticleNotFound when nothing matches.
type ArticleRepository interface {
	// List returns one page of articles, newest first, and the number of
	// documents matching q across all pages.
	List(ctx context.Context, q domain.ListQuery) ([]domain.Article, int64, error)
	// FindByIDOrSlug tries key as a document ID first and falls back to the
	// slug only when no document has that ID.
	FindByIDOrSlug(ctx context.Context, key string) (*domain.Article, error)
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	// Create assigns the ID. Returns domain.ErrSlugTaken on a duplicate slug.
	Create(ctx context.Context, a *domain.Article) error
	Update(ctx context.Context, a *domain.Article) error
	Delete(ctx context.Context, id string) error
}

// JobRepository mirrors ArticleRepository for job postings, ordering lists
// featured first and then newest first. Lookups return
// domain.ErrJobNotFound.
type JobRepository interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.Job, int64, error)
	FindByIDOrSlug(ctx context.Context, key string) (*domain.Job, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	Create(ctx context.Context, j *domain.Job) error
	Update(ctx context.Context, j *domain.Job) error
	Delete(ctx context.Context, id string) error
}
