package api

import (
	"net/http"

	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	services *service.Services
	lists    listOptions
	log      zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, lists listOptions, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		services: services,
		lists:    lists,
		log:      log.With().Str("handler", "category").Logger(),
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	q, ok := parseList(c, h.lists.categories)
	if !ok {
		return
	}
	result, err := h.services.Category.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.services.Category.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.services.Category.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.services.Category.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /v1/categories/:id. Articles lose the reference.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.services.Category.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TagHandler handles tag endpoints
type TagHandler struct {
	services *service.Services
	lists    listOptions
	log      zerolog.Logger
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(services *service.Services, lists listOptions, log zerolog.Logger) *TagHandler {
	return &TagHandler{
		services: services,
		lists:    lists,
		log:      log.With().Str("handler", "tag").Logger(),
	}
}

func (h *TagHandler) List(c *gin.Context) {
	q, ok := parseList(c, h.lists.tags)
	if !ok {
		return
	}
	result, err := h.services.Tag.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TagHandler) Get(c *gin.Context) {
	tag, err := h.services.Tag.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Create(c *gin.Context) {
	var in models.TagInput
	if !bindJSON(c, &in) {
		return
	}
	tag, err := h.services.Tag.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) Update(c *gin.Context) {
	var in models.TagInput
	if !bindJSON(c, &in) {
		return
	}
	tag, err := h.services.Tag.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Delete handles DELETE /v1/tags/:id. Articles lose the reference.
func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.services.Tag.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
