package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CodeMaverick-143/Project-Manager/internal/auth"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/filter"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/form"
)

func (h *Handler) list(c *gin.Context) {
	col, err := h.manager.For(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	visible := filter.Filter(col.Projects(), c.Query("q"), c.DefaultQuery("type", domain.TypeAll))
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": visible, "count": len(visible)})
}

func (h *Handler) create(c *gin.Context) {
	col, err := h.manager.For(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	ctrl := form.New(h.uploader, col, h.maxBytes)
	ctrl.OpenCreate()
	if !h.populate(c, ctrl) {
		return
	}

	p, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	col, err := h.manager.For(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	existing, ok := col.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}

	ctrl := form.New(h.uploader, col, h.maxBytes)
	ctrl.OpenEdit(existing)
	if !h.populate(c, ctrl) {
		return
	}

	p, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

// uploadImage stores a standalone image and returns its public URL, for
// clients that upload before submitting the form.
func (h *Handler) uploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "image file is required"})
		return
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "image exceeds the upload size limit"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not read image"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not read image"})
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is not an image"})
		return
	}

	key := "project-images/" + uuid.New().String() + filepath.Ext(file.Filename)
	url, err := h.uploader.Upload(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "url": url})
}

func (h *Handler) delete(c *gin.Context) {
	col, err := h.manager.For(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := col.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// populate copies the bound request into the controller's draft. Multipart
// requests may carry an "image" file, which becomes the pending upload.
// Returns false after writing an error response.
func (h *Handler) populate(c *gin.Context, ctrl *form.Controller) bool {
	var req projectReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return false
	}

	ctrl.SetTitle(strings.TrimSpace(req.Title))
	ctrl.SetDescription(req.Description)
	if req.Type != "" {
		ctrl.SetType(req.Type)
	}
	ctrl.SetImageURL(req.ImageURL)
	ctrl.SetLinks(req.DemoURL, req.GithubURL)
	if req.Technologies != nil {
		for _, t := range ctrl.Draft().Technologies {
			ctrl.RemoveTechnology(t)
		}
		for _, t := range req.Technologies {
			ctrl.AddTechnology(t)
		}
	}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return true
	}

	file, err := c.FormFile("image")
	if err != nil {
		// no file attached, draft keeps its image URL
		return true
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "image exceeds the upload size limit"})
		return false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not read image"})
		return false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not read image"})
		return false
	}

	if err := ctrl.SelectImage(file.Filename, data); err != nil {
		writeError(c, err)
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	var (
		vErr *domain.ValidationError
		sErr *domain.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": vErr.Message})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, form.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "submit already in flight"})
	case errors.As(err, &sErr):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "storage unavailable, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
