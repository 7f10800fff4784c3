// Package memstore provides in-memory repositories that honour the same
// contracts as the MongoDB implementations. It backs service and handler
// tests.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

var (
	_ ports.ArticleRepository = (*Articles)(nil)
	_ ports.JobRepository     = (*Jobs)(nil)
	_ ports.AdminRepository   = (*Admins)(nil)
)

// fields exposes the identity of a stored document.
type fields struct {
	id        *string
	slug      *string
	published bool
}

type collection[T any] struct {
	mu       sync.RWMutex
	docs     map[string]T
	seq      int
	notFound error
	fieldsOf func(*T) fields
	match    func(domain.ListQuery, *T) bool
	compare  func(a, b *T) int
}

func (c *collection[T]) list(q domain.ListQuery) ([]T, int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := make([]T, 0, len(c.docs))
	for _, d := range c.docs {
		if q.PublishedOnly() && !c.fieldsOf(&d).published {
			continue
		}
		if !c.match(q, &d) {
			continue
		}
		matched = append(matched, d)
	}
	slices.SortFunc(matched, func(a, b T) int { return c.compare(&a, &b) })

	total := int64(len(matched))
	start := q.Skip()
	if start >= total {
		return []T{}, total
	}
	end := min(start+int64(q.Limit()), total)
	return matched[start:end], total
}

func (c *collection[T]) findByIDOrSlug(key string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if d, ok := c.docs[key]; ok {
		return &d, nil
	}
	for _, d := range c.docs {
		if *c.fieldsOf(&d).slug == key {
			return &d, nil
		}
	}
	return nil, c.notFound
}

func (c *collection[T]) findByID(id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.docs[id]
	if !ok {
		return nil, c.notFound
	}
	return &d, nil
}

func (c *collection[T]) create(doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.fieldsOf(doc)
	if c.slugTaken(*f.slug, "") {
		return domain.ErrSlugTaken
	}
	c.seq++
	*f.id = fmt.Sprintf("%024x", c.seq)
	c.docs[*f.id] = *doc
	return nil
}

func (c *collection[T]) update(doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.fieldsOf(doc)
	if _, ok := c.docs[*f.id]; !ok {
		return c.notFound
	}
	if c.slugTaken(*f.slug, *f.id) {
		return domain.ErrSlugTaken
	}
	c.docs[*f.id] = *doc
	return nil
}

func (c *collection[T]) delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return c.notFound
	}
	delete(c.docs, id)
	return nil
}

func (c *collection[T]) slugTaken(slug, exceptID string) bool {
	for id, d := range c.docs {
		if id != exceptID && *c.fieldsOf(&d).slug == slug {
			return true
		}
	}
	return false
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Articles is an in-memory ports.ArticleRepository. Search is a
// case-insensitive substring match instead of a text index.
type Articles struct {
	c *collection[domain.Article]
}

func NewArticles() *Articles {
	return &Articles{c: &collection[domain.Article]{
		docs:     make(map[string]domain.Article),
		notFound: domain.ErrArticleNotFound,
		fieldsOf: func(a *domain.Article) fields {
			return fields{id: &a.ID, slug: &a.Slug, published: a.Published}
		},
		match: func(q domain.ListQuery, a *domain.Article) bool {
			if q.Category() != "" && a.Category != q.Category() {
				return false
			}
			if s := q.Search(); s != "" {
				return containsFold(a.Title, s) || containsFold(a.Excerpt, s) || containsFold(a.Content, s)
			}
			return true
		},
		compare: func(a, b *domain.Article) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(b.ID, a.ID)
		},
	}}
}

func (s *Articles) List(_ context.Context, q domain.ListQuery) ([]domain.Article, int64, error) {
	items, total := s.c.list(q)
	return items, total, nil
}

func (s *Articles) FindByIDOrSlug(_ context.Context, key string) (*domain.Article, error) {
	return s.c.findByIDOrSlug(key)
}

func (s *Articles) FindByID(_ context.Context, id string) (*domain.Article, error) {
	return s.c.findByID(id)
}

func (s *Articles) Create(_ context.Context, a *domain.Article) error { return s.c.create(a) }
func (s *Articles) Update(_ context.Context, a *domain.Article) error { return s.c.update(a) }
func (s *Articles) Delete(_ context.Context, id string) error { return s.c.delete(id) }

// Len reports how many articles are stored.
func (s *Articles) Len() int { return s.c.len() }

// Jobs is an in-memory ports.JobRepository.
type Jobs struct {
	c *collection[domain.Job]
}

func NewJobs() *Jobs {
	return &Jobs{c: &collection[domain.Job]{
		docs:     make(map[string]domain.Job),
		notFound: domain.ErrJobNotFound,
		fieldsOf: func(j *domain.Job) fields {
			return fields{id: &j.ID, slug: &j.Slug, published: j.Published}
		},
		match: func(q domain.ListQuery, j *domain.Job) bool {
			if q.Department() != "" && j.Department != q.Department() {
				return false
			}
			if q.Type() != "" && j.Type != q.Type() {
				return false
			}
			if s := q.Search(); s != "" {
				return containsFold(j.Title, s) || containsFold(j.Description, s)
			}
			return true
		},
		compare: func(a, b *domain.Job) int {
			if a.Featured != b.Featured {
				if a.Featured {
					return -1
				}
				return 1
			}
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(b.ID, a.ID)
		},
	}}
}

func (s *Jobs) List(_ context.Context, q domain.ListQuery) ([]domain.Job, int64, error) {
	items, total := s.c.list(q)
	return items, total, nil
}

func (s *Jobs) FindByIDOrSlug(_ context.Context, key string) (*domain.Job, error) {
	return s.c.findByIDOrSlug(key)
}

func (s *Jobs) FindByID(_ context.Context, id string) (*domain.Job, error) {
	return s.c.findByID(id)
}

func (s *Jobs) Create(_ context.Context, j *domain.Job) error { return s.c.create(j) }
func (s *Jobs) Update(_ context.Context, j *domain.Job) error { return s.c.update(j) }
func (s *Jobs) Delete(_ context.Context, id string) error { return s.c.delete(id) }

func (s *Jobs) Len() int { return s.c.len() }

// Admins is an in-memory ports.AdminRepository keyed by normalized email.
type Admins struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Admin
	seq     int
}

func NewAdmins() *Admins {
	return &Admins{byEmail: make(map[string]domain.Admin)}
}

func (s *Admins) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return &a, nil
}

func (s *Admins) FindByID(_ context.Context, id string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.byEmail {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (s *Admins) Create(_ context.Context, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[admin.Email]; ok {
		return domain.ErrEmailTaken
	}
	s.seq++
	admin.ID = fmt.Sprintf("%024x", s.seq)
	s.byEmail[admin.Email] = *admin
	return nil
}

func (s *Admins) UpdatePassword(_ context.Context, id, passwordHash string, mustChange bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for email, a := range s.byEmail {
		if a.ID == id {
			a.PasswordHash = passwordHash
			a.MustChangePassword = mustChange
			a.UpdatedAt = at
			s.byEmail[email] = a
			return nil
		}
	}
	return domain.ErrAdminNotFound
}

func (s *Admins) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}
