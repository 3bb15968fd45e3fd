package handlers

import (
	"encoding/base64"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/application"
	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/internal/interface/middleware"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/response"
	"github.com/oksasatya/files-manager/pkg/validation"
)

type FileHandler struct {
	Svc    *application.FileService
	Logger *logrus.Logger
}

func NewFileHandler(svc *application.FileService, logger *logrus.Logger) *FileHandler {
	return &FileHandler{Svc: svc, Logger: logger}
}

type uploadRequest struct {
	Name     string           `json:"name" binding:"required"`
	Type     entity.FileKind  `json:"type" binding:"required,filekind"`
	ParentID entity.ParentRef `json:"parentId"`
	IsPublic bool             `json:"isPublic"`
	Data     string           `json:"data" binding:"required_unless=Type folder"`
}

// Upload handles POST /files. data is base64 encoded.
func (h *FileHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validation.ToAppError(err), h.Logger)
		return
	}
	in := application.CreateFileInput{
		Name:     req.Name,
		Kind:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	}
	if req.Type.HasContent() {
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			response.FromError(c, apperror.BadRequest("Invalid data"), h.Logger)
			return
		}
		in.Data = data
	}
	v, err := h.Svc.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusCreated, v)
}

// Show handles GET /files/:id.
func (h *FileHandler) Show(c *gin.Context) {
	v, err := h.Svc.GetByID(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, v)
}

// Progress handles GET /files/:id/progress.
func (h *FileHandler) Progress(c *gin.Context) {
	p, err := h.Svc.ThumbnailProgress(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"progress": p})
}

// Index handles GET /files?parentId=&page=.
func (h *FileHandler) Index(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = 0
	}
	parent := entity.ParentRef(c.Query("parentId"))
	list, err := h.Svc.List(c.Request.Context(), middleware.CurrentUser(c), parent, page)
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Publish handles PUT /files/:id/publish.
func (h *FileHandler) Publish(c *gin.Context) {
	h.setVisibility(c, true)
}

// Unpublish handles PUT /files/:id/unpublish.
func (h *FileHandler) Unpublish(c *gin.Context) {
	h.setVisibility(c, false)
}

func (h *FileHandler) setVisibility(c *gin.Context, public bool) {
	v, err := h.Svc.SetVisibility(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), public)
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, v)
}

// Data handles GET /files/:id/data?size=. Anonymous callers can read public
// files.
func (h *FileHandler) Data(c *gin.Context) {
	data, name, err := h.Svc.Content(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Query("size"))
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	c.Data(http.StatusOK, contentType(name, data), data)
}

func contentType(name string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return mimetype.Detect(data).String()
}

// Search handles GET /search/files?q=&size=.
func (h *FileHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	list, err := h.Svc.Search(c.Request.Context(), middleware.CurrentUser(c), c.Query("q"), size)
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, list)
}
