package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/testutil/memstore"
)

func ptr[T any](v T) *T { return &v }

func articleChanges(title string) domain.ArticleChanges {
	return domain.ArticleChanges{
		Title:   ptr(title),
		Excerpt: ptr("Summary of " + title),
		Content: ptr("<p>Body of " + title + "</p>"),
		Image:   ptr("/img/cover.png"),
		Author:  ptr("Sam Lee"),
	}
}

func jobChanges(title string) domain.JobChanges {
	return domain.JobChanges{
		Title:       ptr(title),
		Department:  ptr(domain.DepartmentEngineering),
		Location:    ptr("Austin, TX"),
		Type:        ptr(domain.EmploymentFullTime),
		Description: ptr("Role description for " + title),
	}
}

// steppingClock returns a time one minute later on every call.
func steppingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

// ---------------------------------------------------------------------------
// Articles
// ---------------------------------------------------------------------------

func TestArticleService_Create_DerivesSlug(t *testing.T) {
	svc := NewArticleService(memstore.NewArticles(), zerolog.Nop())

	a, err := svc.Create(context.Background(), articleChanges("Test Article Title"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.Slug != "test-article-title" {
		t.Fatalf("expected slug test-article-title, got %q", a.Slug)
	}
	if a.ID == "" {
		t.Fatalf("expected an ID to be assigned")
	}
	if a.Published {
		t.Fatalf("articles must start unpublished")
	}
}

func TestArticleService_Create_DuplicateSlug(t *testing.T) {
	svc := NewArticleService(memstore.NewArticles(), zerolog.Nop())
	ctx := context.Background()

	first := articleChanges("First")
	first.Slug = ptr("shared-slug")
	if _, err := svc.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := articleChanges("Second")
	second.Slug = ptr("Shared Slug")
	if _, err := svc.Create(ctx, second); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestArticleService_Create_SanitizesMarkup(t *testing.T) {
	svc := NewArticleService(memstore.NewArticles(), zerolog.Nop())

	ch := articleChanges("Markup")
	ch.Content = ptr(`<p onclick="steal()">Hello</p><script>alert(1)</script>`)
	ch.Excerpt = ptr("<b>Tips</b> &amp; tricks")

	a, err := svc.Create(context.Background(), ch)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if strings.Contains(a.Content, "script") || strings.Contains(a.Content, "onclick") {
		t.Fatalf("content not sanitized: %q", a.Content)
	}
	if !strings.Contains(a.Content, "<p>Hello</p>") {
		t.Fatalf("safe markup should survive: %q", a.Content)
	}
	if a.Excerpt != "Tips & tricks" {
		t.Fatalf("unexpected excerpt: %q", a.Excerpt)
	}

	encoded := []struct {
		in   string
		want string
	}{
		{"Intro &lt;img src=x onerror=alert(1)&gt;", "Intro"},
		{"Intro &amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;", "Intro"},
		{"1 &lt; 2", "1 < 2"},
	}
	for i, tc := range encoded {
		ch := articleChanges(fmt.Sprintf("Encoded %d", i))
		ch.Excerpt = ptr(tc.in)
		a, err := svc.Create(context.Background(), ch)
		if err != nil {
			t.Fatalf("Create(%q) returned error: %v", tc.in, err)
		}
		if a.Excerpt != tc.want {
			t.Fatalf("excerpt %q stored as %q, want %q", tc.in, a.Excerpt, tc.want)
		}
	}
}

func TestArticleService_Create_ValidationError(t *testing.T) {
	svc := NewArticleService(memstore.NewArticles(), zerolog.Nop())

	_, err := svc.Create(context.Background(), domain.ArticleChanges{Title: ptr("Lonely")})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestArticleService_List_Pagination(t *testing.T) {
	repo := memstore.NewArticles()
	svc := NewArticleService(repo, zerolog.Nop())
	svc.now = steppingClock()
	ctx := context.Background()

	for i := range 25 {
		ch := articleChanges(fmt.Sprintf("Post %02d", i))
		ch.Published = ptr(true)
		if _, err := svc.Create(ctx, ch); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	tests := []struct {
		page      int
		wantItems int
	}{
		{1, 10},
		{3, 5},
		{4, 0},
	}
	for _, tt := range tests {
		q, _ := domain.NewArticleQuery(domain.ListParams{Page: tt.page, Limit: 10}, false)
		page, err := svc.List(ctx, q)
		if err != nil {
			t.Fatalf("page %d: %v", tt.page, err)
		}
		if len(page.Items) != tt.wantItems {
			t.Fatalf("page %d: expected %d items, got %d", tt.page, tt.wantItems, len(page.Items))
		}
		if page.Total != 25 || page.Pages != 3 || page.Page != tt.page || page.Limit != 10 {
			t.Fatalf("page %d: unexpected window %+v", tt.page, page)
		}
	}

	q, _ := domain.NewArticleQuery(domain.ListParams{Page: 1, Limit: 10}, false)
	first, _ := svc.List(ctx, q)
	if first.Items[0].Title != "Post 24" {
		t.Fatalf("expected newest first, got %q", first.Items[0].Title)
	}
}

func TestArticleService_List_Visibility(t *testing.T) {
	svc := NewArticleService(memstore.NewArticles(), zerolog.Nop())
	ctx := context.Background()

	draft := articleChanges("Draft")
	live := articleChanges("Live")
	live.Published = ptr(true)
	for _, ch := range []domain.ArticleChanges{draft, live} {
		if _, err := svc.Create(ctx, ch); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	anon, _ := domain.NewArticleQuery(domain.ListParams{All: true}, false)
	page, _ := svc.List(ctx, anon)
	if page.Total != 1 || page.Items[0].Title != "Live" {
		t.Fatalf("anonymous listing leaked drafts: %+v", page.Items)
	}

	admin, _ := domain.NewArticleQuery(domain.ListParams{All: true}, true)
	page, _ = svc.List(ctx, admin)
	if page.Total != 2 {
		t.Fatalf("expected both articles for an admin, got %d", page.Total)
	}
}

func TestArticleService_Get(t *testing.T) {
	svc := NewArticleService(memstore.NewArticles(), zerolog.Nop())
	ctx := context.Background()

	draft, err := svc.Create(ctx, articleChanges("Hidden Draft"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Get(ctx, draft.Slug, false); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected drafts to be hidden, got %v", err)
	}
	got, err := svc.Get(ctx, draft.ID, true)
	if err != nil || got.ID != draft.ID {
		t.Fatalf("expected draft by id for admins, got %v %v", got, err)
	}
	if _, err := svc.Get(ctx, "does-not-exist", true); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestArticleService_Update(t *testing.T) {
	svc := NewArticleService(memstore.NewArticles(), zerolog.Nop())
	svc.now = steppingClock()
	ctx := context.Background()

	a, err := svc.Create(ctx, articleChanges("Original Title"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.Update(ctx, a.ID, domain.ArticleChanges{Title: ptr("New Title"), Published: ptr(true)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Slug != "original-title" {
		t.Fatalf("slug must not change on update, got %q", updated.Slug)
	}
	if !updated.UpdatedAt.After(a.UpdatedAt) {
		t.Fatalf("expected updatedAt to move forward")
	}
	if !updated.Published || updated.Title != "New Title" {
		t.Fatalf("changes not applied: %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", domain.ArticleChanges{Title: ptr("x")}); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestArticleService_Delete(t *testing.T) {
	repo := memstore.NewArticles()
	svc := NewArticleService(repo, zerolog.Nop())
	ctx := context.Background()

	a, _ := svc.Create(ctx, articleChanges("Short Lived"))
	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("expected empty store")
	}
	if err := svc.Delete(ctx, a.ID); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Jobs
// ---------------------------------------------------------------------------

func TestJobService_Create_PublishedByDefault(t *testing.T) {
	svc := NewJobService(memstore.NewJobs(), zerolog.Nop())

	j, err := svc.Create(context.Background(), jobChanges("Field Technician"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !j.Published || j.Slug != "field-technician" {
		t.Fatalf("unexpected job: %+v", j)
	}
}

func TestJobService_List_FeaturedFirst(t *testing.T) {
	svc := NewJobService(memstore.NewJobs(), zerolog.Nop())
	svc.now = steppingClock()
	ctx := context.Background()

	featured := jobChanges("Old Featured")
	featured.Featured = ptr(true)
	for _, ch := range []domain.JobChanges{featured, jobChanges("Newer"), jobChanges("Newest")} {
		if _, err := svc.Create(ctx, ch); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	q, _ := domain.NewJobQuery(domain.ListParams{}, false)
	page, err := svc.List(ctx, q)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	got := []string{page.Items[0].Title, page.Items[1].Title, page.Items[2].Title}
	want := []string{"Old Featured", "Newest", "Newer"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v want %v", got, want)
		}
	}
}

func TestJobService_UpdateAndDelete_NotFound(t *testing.T) {
	svc := NewJobService(memstore.NewJobs(), zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Update(ctx, "nope", domain.JobChanges{Title: ptr("x")}); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "nope"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
