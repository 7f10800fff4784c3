package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpoint/site-api/internal/api/metrics"
	"github.com/leadpoint/site-api/internal/core/domain"
	"github.com/leadpoint/site-api/internal/core/ports"
)

// ArticleHandler handles HTTP requests for articles.
type ArticleHandler struct {
	service ports.ArticleService
}

func NewArticleHandler(service ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List handles GET /api/articles.
//
// Anonymous callers only ever see published articles; an admin session with
// all=true also lists drafts.
//
// @Summary      List articles
// @Tags         articles
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Param        search    query     string  false  "Full-text search over title, excerpt and content"
// @Param        page      query     int     false  "1-based page number"  default(1)
// @Param        limit     query     int     false  "Page size (max 100)"  default(10)
// @Param        all       query     bool    false  "Include unpublished articles (admin only)"
// @Success      200       {object}  listResponse[domain.Article]
// @Failure      400       {object}  errorResponse
// @Failure      503       {object}  errorResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	q, err := domain.NewArticleQuery(listParams(c), authenticated(c))
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page))
}

// Get handles GET /api/articles/:id.
//
// @Summary      Get an article by id or slug
// @Tags         articles
// @Produce      json
// @Param        id   path      string  true  "Article id or slug"
// @Success      200  {object}  domain.Article
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	article, err := h.service.Get(c.Request().Context(), c.Param("id"), authenticated(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Create handles POST /api/articles.
//
// @Summary      Create an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      articleRequest  true  "Article fields; slug is derived from the title when omitted"
// @Success      201   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	article, err := h.service.Create(c.Request().Context(), toArticleChanges(req))
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("article", "create").Inc()
	return c.JSON(http.StatusCreated, article)
}

// Update handles PUT /api/articles/:id.
//
// @Summary      Update an article
// @Description  Applies a partial update. The slug is kept unless the body sets it; an empty slug re-derives it from the title.
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string          true  "Article id"
// @Param        body  body      articleRequest  true  "Fields to change"
// @Success      200   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	article, err := h.service.Update(c.Request().Context(), c.Param("id"), toArticleChanges(req))
	if err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("article", "update").Inc()
	return c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/articles/:id.
//
// @Summary      Delete an article
// @Tags         articles
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ContentMutationsTotal.WithLabelValues("article", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Article deleted successfully"})
}
