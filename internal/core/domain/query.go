package domain

import "strings"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListParams is the raw, untrusted input of a list request.
type ListParams struct {
	Page       int
	Limit      int
	Search     string
	Category   string
	Department string
	Type       string
	All        bool
}

// ListQuery is a validated list request. Its fields are unexported so the
// only way to see unpublished documents is through an authenticated
// constructor call with All set.
type ListQuery struct {
	page               int
	limit              int
	search             string
	category           ArticleCategory
	department         Department
	jobType            EmploymentType
	includeUnpublished bool
}

// NewArticleQuery validates p for the article listing.
func NewArticleQuery(p ListParams, authenticated bool) (ListQuery, error) {
	q := newListQuery(p, authenticated)
	if c := strings.TrimSpace(p.Category); c != "" {
		q.category = ArticleCategory(c)
		if !q.category.Valid() {
			return ListQuery{}, InvalidField("category", "category must be one of: "+joinValues(articleCategories))
		}
	}
	return q, nil
}

// NewJobQuery validates p for the job listing.
func NewJobQuery(p ListParams, authenticated bool) (ListQuery, error) {
	q := newListQuery(p, authenticated)
	if d := strings.TrimSpace(p.Department); d != "" {
		q.department = Department(d)
		if !q.department.Valid() {
			return ListQuery{}, InvalidField("department", "department must be one of: "+joinValues(departments))
		}
	}
	if t := strings.TrimSpace(p.Type); t != "" {
		q.jobType = EmploymentType(t)
		if !q.jobType.Valid() {
			return ListQuery{}, InvalidField("type", "type must be one of: "+joinValues(employmentTypes))
		}
	}
	return q, nil
}

func newListQuery(p ListParams, authenticated bool) ListQuery {
	q := ListQuery{
		page:               p.Page,
		limit:              p.Limit,
		search:             strings.TrimSpace(p.Search),
		includeUnpublished: authenticated && p.All,
	}
	if q.page < 1 {
		q.page = 1
	}
	if q.limit < 1 {
		q.limit = DefaultPageLimit
	}
	if q.limit > MaxPageLimit {
		q.limit = MaxPageLimit
	}
	return q
}

func (q ListQuery) Page() int { return q.page }
func (q ListQuery) Limit() int { return q.limit }
func (q ListQuery) Search() string { return q.search }
func (q ListQuery) Category() ArticleCategory { return q.category }
func (q ListQuery) Department() Department { return q.department }
func (q ListQuery) Type() EmploymentType { return q.jobType }
func (q ListQuery) PublishedOnly() bool { return !q.includeUnpublished }

// Skip is the number of documents before the requested page.
func (q ListQuery) Skip() int64 {
	return int64(q.page-1) * int64(q.limit)
}

// Pages is ceil(total/limit).
func (q ListQuery) Pages(total int64) int {
	if total <= 0 {
		return 0
	}
	limit := int64(q.limit)
	return int((total + limit - 1) / limit)
}
