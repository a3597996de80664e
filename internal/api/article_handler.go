package api

import (
	"net/http"

	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	lists    listOptions
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, lists listOptions, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		lists:    lists,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	q, ok := parseList(c, h.lists.articles)
	if !ok {
		return
	}
	scope := service.ArticleScope{Category: c.Query("category"), Tag: c.Query("tag")}

	result, err := h.services.Article.List(c.Request.Context(), q, scope)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /v1/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// GetByGUID handles GET /v1/articles/guid/:guid and counts a view from the caller
func (h *ArticleHandler) GetByGUID(c *gin.Context) {
	article, err := h.services.Article.GetByGUID(c.Request.Context(), c.Param("guid"), c.ClientIP())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var in models.ArticleInput
	if !bindJSON(c, &in) {
		return
	}
	article, err := h.services.Article.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PATCH /v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	var in models.ArticleInput
	if !bindJSON(c, &in) {
		return
	}
	article, err := h.services.Article.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like handles POST /v1/articles/:id/like
func (h *ArticleHandler) Like(c *gin.Context) {
	result, err := h.services.Article.Like(c.Request.Context(), c.Param("id"), c.ClientIP())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HasLiked handles GET /v1/articles/guid/:guid/liked
func (h *ArticleHandler) HasLiked(c *gin.Context) {
	liked, err := h.services.Article.HasLiked(c.Request.Context(), c.Param("guid"), c.ClientIP())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}
