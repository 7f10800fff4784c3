package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/api/metrics"
	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

// JobHandler handles HTTP requests for job postings.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// List handles GET /api/jobs. Featured postings come first.
//
// @Summary      List job postings
// @Tags         jobs
// @Produce      json
// @Param        department  query     string  false  "Department filter"
// @Param        type        query     string  false  "Employment type filter"
// @Param        search      query     string  false  "Full-text search over title and description"
// @Param        page        query     int     false  "1-based page number"  default(1)
// @Param        limit       query     int     false  "Page size (max 100)"  default(10)
// @Param        all         query     bool    false  "Include unpublished postings (admin only)"
// @Success      200         {object}  listResponse[domain.Job]
// @Failure      400         {object}  errorResponse
// @Failure      503         {object}  errorResponse
// @Router       /api/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	q, err := domain.NewJobQuery(listParams(c), authenticated(c))
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page))
}

// Get handles GET /api/jobs/:id.
//
// @Summary      Get a job posting by id or slug
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id or slug"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  errorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.service.Get(c.Request().Context(), c.Param("id"), authenticated(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// Create handles POST /api/jobs.
//
// @Summary      Create a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      jobRequest  true  "Job fields; slug is derived from the title when omitted"
// @Success      201   {object}  domain.Job
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	ch, err := toJobChanges(req)
	if err != nil {
		return err
	}

	job, err := h.service.Create(c.Request().Context(), ch)
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("job", "create").Inc()
	return c.JSON(http.StatusCreated, job)
}

// Update handles PUT /api/jobs/:id.
//
// @Summary      Update a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string      true  "Job id"
// @Param        body  body      jobRequest  true  "Fields to change"
// @Success      200   {object}  domain.Job
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	ch, err := toJobChanges(req)
	if err != nil {
		return err
	}

	job, err := h.service.Update(c.Request().Context(), c.Param("id"), ch)
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("job", "update").Inc()
	return c.JSON(http.StatusOK, job)
}

// Delete handles DELETE /api/jobs/:id.
//
// @Summary      Delete a job posting
// @Tags         jobs
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("job", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Job deleted successfully"})
}
