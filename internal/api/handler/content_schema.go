package handler

import (
	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---
//
// Every field is optional at the JSON level. A missing field leaves the
// stored value untouched on update; required fields are enforced by the
// domain on the merged result.

type articleRequest struct {
	Title       *string                 `json:"title"`
	Slug        *string                 `json:"slug"`
	Excerpt     *string                 `json:"excerpt"`
	Content     *string                 `json:"content"`
	Category    *domain.ArticleCategory `json:"category" swaggertype:"string" enums:"industry-news,tips-and-guides,case-studies,company-news,product-updates"`
	Image       *string                 `json:"image"`
	Author      *string                 `json:"author"`
	AuthorImage *string                 `json:"authorImage"`
	ReadTime    *string                 `json:"readTime"`
	Featured    *bool                   `json:"featured"`
	Published   *bool                   `json:"published"`
	Tags        []string                `json:"tags"`
}

type jobRequest struct {
	Title            *string                `json:"title"`
	Slug             *string                `json:"slug"`
	Department       *domain.Department     `json:"department" swaggertype:"string" enums:"engineering,design,marketing,sales,operations,customer-success"`
	Location         *string                `json:"location"`
	Type             *domain.EmploymentType `json:"type" swaggertype:"string" enums:"full-time,part-time,contract,internship"`
	Description      *string                `json:"description"`
	Requirements     []string               `json:"requirements"`
	Responsibilities []string               `json:"responsibilities"`
	Benefits         []string               `json:"benefits"`
	Salary           *string                `json:"salary"`
	Featured         *bool                  `json:"featured"`
	Published        *bool                  `json:"published"`
	// Deadline accepts YYYY-MM-DD or RFC 3339. An empty string removes it.
	Deadline *string `json:"deadline" example:"2025-12-31"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

// --- Response types ---

type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type listResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type adminResponse struct {
	Admin              *domain.Admin `json:"admin"`
	MustChangePassword bool          `json:"mustChangePassword"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func newListResponse[T any](p *ports.Page[T]) listResponse[T] {
	data := p.Items
	if data == nil {
		data = []T{}
	}
	return listResponse[T]{
		Data: data,
		Pagination: paginationResponse{
			Page:  p.Page,
			Limit: p.Limit,
			Total: p.Total,
			Pages: p.Pages,
		},
	}
}
