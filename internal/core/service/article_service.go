package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

type ArticleService struct {
	repo     ports.ArticleRepository
	sanitize htmlSanitizer
	log      zerolog.Logger
	now      func() time.Time
}

func NewArticleService(repo ports.ArticleRepository, log zerolog.Logger) *ArticleService {
	return &ArticleService{repo: repo, sanitize: newHTMLSanitizer(), log: log, now: time.Now}
}

func (s *ArticleService) List(ctx context.Context, q domain.ListQuery) (*ports.Page[domain.Article], error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ports.Page[domain.Article]{
		Items: items,
		Total: total,
		Page:  q.Page(),
		Limit: q.Limit(),
		Pages: q.Pages(total),
	}, nil
}

func (s *ArticleService) Get(ctx context.Context, idOrSlug string, includeUnpublished bool) (*domain.Article, error) {
	a, err := s.repo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !a.Published && !includeUnpublished {
		return nil, domain.ErrArticleNotFound
	}
	return a, nil
}

func (s *ArticleService) Create(ctx context.Context, ch domain.ArticleChanges) (*domain.Article, error) {
	a, err := domain.NewArticle(s.clean(ch), s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info().Str("article_id", a.ID).Str("slug", a.Slug).Msg("article created")
	return a, nil
}

func (s *ArticleService) Update(ctx context.Context, id string, ch domain.ArticleChanges) (*domain.Article, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Apply(s.clean(ch), s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info().Str("article_id", a.ID).Msg("article updated")
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("article_id", id).Msg("article deleted")
	return nil
}

func (s *ArticleService) clean(ch domain.ArticleChanges) domain.ArticleChanges {
	ch.Content = s.sanitize.Rich(ch.Content)
	ch.Excerpt = s.sanitize.Plain(ch.Excerpt)
	return ch
}
