package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/core/domain"
)

const deadlineDateLayout = "2006-01-02"

// --- Request → domain changes ---

func toArticleChanges(req articleRequest) domain.ArticleChanges {
	return domain.ArticleChanges{
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Category:    req.Category,
		Image:       req.Image,
		Author:      req.Author,
		AuthorImage: req.AuthorImage,
		ReadTime:    req.ReadTime,
		Featured:    req.Featured,
		Published:   req.Published,
		Tags:        req.Tags,
	}
}

func toJobChanges(req jobRequest) (domain.JobChanges, error) {
	ch := domain.JobChanges{
		Title:            req.Title,
		Slug:             req.Slug,
		Department:       req.Department,
		Location:         req.Location,
		Type:             req.Type,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
		Benefits:         req.Benefits,
		Salary:           req.Salary,
		Featured:         req.Featured,
		Published:        req.Published,
	}
	if req.Deadline != nil {
		raw := strings.TrimSpace(*req.Deadline)
		if raw == "" {
			ch.ClearDeadline = true
			return ch, nil
		}
		d, err := parseDeadline(raw)
		if err != nil {
			return domain.JobChanges{}, domain.InvalidField("deadline", "deadline must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
		}
		ch.Deadline = &d
	}
	return ch, nil
}

func parseDeadline(raw string) (time.Time, error) {
	if d, err := time.Parse(deadlineDateLayout, raw); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

// --- Query string → list params ---

// listParams reads the shared list query parameters. Unparseable page and
// limit values fall back to their defaults.
func listParams(c echo.Context) domain.ListParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	all, _ := strconv.ParseBool(c.QueryParam("all"))
	return domain.ListParams{
		Page:       page,
		Limit:      limit,
		Search:     c.QueryParam("search"),
		Category:   c.QueryParam("category"),
		Department: c.QueryParam("department"),
		Type:       c.QueryParam("type"),
		All:        all,
	}
}
