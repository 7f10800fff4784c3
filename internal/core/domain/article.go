package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// ArticleCategory is the fixed set of editorial sections.
type ArticleCategory string

const (
	CategoryIndustryNews   ArticleCategory = "industry-news"
	CategoryTipsAndGuides  ArticleCategory = "tips-and-guides"
	CategoryCaseStudies    ArticleCategory = "case-studies"
	CategoryCompanyNews    ArticleCategory = "company-news"
	CategoryProductUpdates ArticleCategory = "product-updates"
)

// DefaultArticleCategory is assigned when a new article names none.
const DefaultArticleCategory = CategoryTipsAndGuides

// MaxExcerptLength is measured in characters, not bytes.
const MaxExcerptLength = 300

var articleCategories = []ArticleCategory{
	CategoryIndustryNews,
	CategoryTipsAndGuides,
	CategoryCaseStudies,
	CategoryCompanyNews,
	CategoryProductUpdates,
}

// ArticleCategories lists every accepted category in display order.
func ArticleCategories() []ArticleCategory {
	return slices.Clone(articleCategories)
}

// Valid reports whether c is a known category.
func (c ArticleCategory) Valid() bool {
	return slices.Contains(articleCategories, c)
}

// Article is a blog post or news item.
type Article struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Excerpt     string          `json:"excerpt"`
	Content     string          `json:"content"`
	Category    ArticleCategory `json:"category"`
	Image       string          `json:"image,omitempty"`
	Author      string          `json:"author"`
	AuthorImage string          `json:"authorImage,omitempty"`
	ReadTime    string          `json:"readTime"`
	Featured    bool            `json:"featured"`
	Published   bool            `json:"published"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ArticleChanges carries caller-supplied article fields. A nil pointer (or
// nil Tags) leaves the field untouched. Setting Slug to "" asks for the
// slug to be derived again from the title.
type ArticleChanges struct {
	Title       *string
	Slug        *string
	Excerpt     *string
	Content     *string
	Category    *ArticleCategory
	Image       *string
	Author      *string
	AuthorImage *string
	ReadTime    *string
	Featured    *bool
	Published   *bool
	Tags        []string
}

// NewArticle builds a validated, unpublished article from ch. The slug is
// derived from the title when absent and the read time is estimated from
// the content when not given.
func NewArticle(ch ArticleChanges, now time.Time) (*Article, error) {
	a := &Article{
		Category:  DefaultArticleCategory,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.apply(ch)
	a.normalize()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Apply merges ch into a and refreshes UpdatedAt. a is left unchanged when
// the merged result does not validate. The slug is kept unless ch clears
// or replaces it.
func (a *Article) Apply(ch ArticleChanges, now time.Time) error {
	next := *a
	next.Tags = slices.Clone(a.Tags)
	next.apply(ch)
	next.normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*a = next
	return nil
}

// Validate checks required fields first, then value constraints.
func (a *Article) Validate() error {
	var missing []string
	if a.Title == "" {
		missing = append(missing, "title")
	}
	if a.Excerpt == "" {
		missing = append(missing, "excerpt")
	}
	if a.Content == "" {
		missing = append(missing, "content")
	}
	if a.Author == "" {
		missing = append(missing, "author")
	}
	if err := MissingFields(missing...); err != nil {
		return err
	}

	if a.Slug == "" {
		return InvalidField("slug", "slug must contain at least one letter or digit")
	}
	if utf8.RuneCountInString(a.Excerpt) > MaxExcerptLength {
		return InvalidField("excerpt", "excerpt must be at most 300 characters")
	}
	if !a.Category.Valid() {
		return InvalidField("category", "category must be one of: "+joinValues(articleCategories))
	}
	return nil
}

func (a *Article) apply(ch ArticleChanges) {
	setTrimmed(&a.Title, ch.Title)
	if ch.Slug != nil {
		a.Slug = Slugify(*ch.Slug)
	}
	setTrimmed(&a.Excerpt, ch.Excerpt)
	setTrimmed(&a.Content, ch.Content)
	if ch.Category != nil {
		a.Category = ArticleCategory(strings.TrimSpace(string(*ch.Category)))
	}
	setTrimmed(&a.Image, ch.Image)
	setTrimmed(&a.Author, ch.Author)
	setTrimmed(&a.AuthorImage, ch.AuthorImage)
	setTrimmed(&a.ReadTime, ch.ReadTime)
	if ch.Featured != nil {
		a.Featured = *ch.Featured
	}
	if ch.Published != nil {
		a.Published = *ch.Published
	}
	if ch.Tags != nil {
		a.Tags = cleanList(ch.Tags)
	}
}

func (a *Article) normalize() {
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.ReadTime == "" && a.Content != "" {
		a.ReadTime = EstimateReadTime(a.Content)
	}
}

func setTrimmed(dst, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// cleanList trims entries and drops empty ones, keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
