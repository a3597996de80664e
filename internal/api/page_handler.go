package api

import (
	"net/http"

	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PageHandler handles page endpoints
type PageHandler struct {
	services *service.Services
	lists    listOptions
	log      zerolog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(services *service.Services, lists listOptions, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		services: services,
		lists:    lists,
		log:      log.With().Str("handler", "page").Logger(),
	}
}

func (h *PageHandler) List(c *gin.Context) {
	q, ok := parseList(c, h.lists.pages)
	if !ok {
		return
	}
	result, err := h.services.Page.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PageHandler) Get(c *gin.Context) {
	page, err := h.services.Page.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) GetByGUID(c *gin.Context) {
	page, err := h.services.Page.GetByGUID(c.Request.Context(), c.Param("guid"), c.ClientIP())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) Create(c *gin.Context) {
	var in models.PageInput
	if !bindJSON(c, &in) {
		return
	}
	page, err := h.services.Page.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

func (h *PageHandler) Update(c *gin.Context) {
	var in models.PageInput
	if !bindJSON(c, &in) {
		return
	}
	page, err := h.services.Page.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) Delete(c *gin.Context) {
	if err := h.services.Page.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
