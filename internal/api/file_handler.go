package api

import (
	"fmt"
	"net/http"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/content-graph-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// FileHandler handles the upload tree endpoints
type FileHandler struct {
	services *service.Services
	cfg      *config.Config
	lists    listOptions
	log      zerolog.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(services *service.Services, cfg *config.Config, lists listOptions, log zerolog.Logger) *FileHandler {
	return &FileHandler{
		services: services,
		cfg:      cfg,
		lists:    lists,
		log:      log.With().Str("handler", "file").Logger(),
	}
}

// folderParam reads an optional folder reference. Empty and "null" mean the root.
func folderParam(raw string) (*string, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	if !validation.IsUUID(raw) {
		return nil, fmt.Errorf("folderId must be a UUID")
	}
	return &raw, nil
}

// List handles GET /v1/files?folderId=
func (h *FileHandler) List(c *gin.Context) {
	q, ok := parseList(c, h.lists.files)
	if !ok {
		return
	}
	folderID, err := folderParam(c.Query("folderId"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.services.File.List(c.Request.Context(), q, folderID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FileHandler) Get(c *gin.Context) {
	file, err := h.services.File.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// CreateFolder handles POST /v1/files/folders. An existing folder at the path is returned as is.
func (h *FileHandler) CreateFolder(c *gin.Context) {
	var in models.FolderInput
	if !bindJSON(c, &in) {
		return
	}
	folder, err := h.services.File.CreateFolder(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// Upload handles POST /v1/files (multipart: file, title, folderId)
func (h *FileHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "file upload is required")
		return
	}
	defer file.Close()

	if limit := h.cfg.Storage.MaxUploadSize; limit > 0 && header.Size > limit {
		badRequest(c, fmt.Sprintf("file too large, max size is %d MB", limit/(1024*1024)))
		return
	}

	folderID, err := folderParam(c.PostForm("folderId"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	up := models.Upload{
		Title:    c.PostForm("title"),
		Filename: header.Filename,
		Mimetype: header.Header.Get("Content-Type"),
		Size:     header.Size,
		FolderID: folderID,
	}
	stored, err := h.services.File.Upload(c.Request.Context(), up, file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *FileHandler) Update(c *gin.Context) {
	var in models.FileUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	file, err := h.services.File.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// Delete handles DELETE /v1/files/:id. Files still in use are refused with 400.
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.services.File.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
