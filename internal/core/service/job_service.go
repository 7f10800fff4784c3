package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

type JobService struct {
	repo     ports.JobRepository
	sanitize htmlSanitizer
	log      zerolog.Logger
	now      func() time.Time
}

func NewJobService(repo ports.JobRepository, log zerolog.Logger) *JobService {
	return &JobService{repo: repo, sanitize: newHTMLSanitizer(), log: log, now: time.Now}
}

func (s *JobService) List(ctx context.Context, q domain.ListQuery) (*ports.Page[domain.Job], error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ports.Page[domain.Job]{
		Items: items,
		Total: total,
		Page:  q.Page(),
		Limit: q.Limit(),
		Pages: q.Pages(total),
	}, nil
}

func (s *JobService) Get(ctx context.Context, idOrSlug string, includeUnpublished bool) (*domain.Job, error) {
	j, err := s.repo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !j.Published && !includeUnpublished {
		return nil, domain.ErrJobNotFound
	}
	return j, nil
}

func (s *JobService) Create(ctx context.Context, ch domain.JobChanges) (*domain.Job, error) {
	ch.Description = s.sanitize.Rich(ch.Description)
	j, err := domain.NewJob(ch, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}
	s.log.Info().Str("job_id", j.ID).Str("slug", j.Slug).Msg("job created")
	return j, nil
}

func (s *JobService) Update(ctx context.Context, id string, ch domain.JobChanges) (*domain.Job, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ch.Description = s.sanitize.Rich(ch.Description)
	if err := j.Apply(ch, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, j); err != nil {
		return nil, err
	}
	s.log.Info().Str("job_id", j.ID).Msg("job updated")
	return j, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("job_id", id).Msg("job deleted")
	return nil
}
