package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MinKhant07/Thumbnail/internal/application/usecase/backup"
	"github.com/MinKhant07/Thumbnail/internal/application/usecase/gallery"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/datauri"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

type GalleryHandler struct {
	maxUploadBytes int64
	backupUC       *backup.BackupUseCase
	logger         logger.Logger
}

func NewGalleryHandler(maxUploadBytes int64, backupUC *backup.BackupUseCase, log logger.Logger) *GalleryHandler {
	return &GalleryHandler{
		maxUploadBytes: maxUploadBytes,
		backupUC:       backupUC,
		logger:         log,
	}
}

// List serves the filtered in-memory view. No store round trip.
func (h *GalleryHandler) List(c *gin.Context) {
	session, ok := SessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("gallery session not found in context"))
		return
	}

	category := c.Query("category")
	if category != "" && category != thumbnail.FilterAll {
		if _, err := thumbnail.ParseCategory(category); err != nil {
			c.Error(apperror.NewInvalidInput(fmt.Sprintf("unknown category %q", category), err))
			return
		}
	}

	thumbs := session.Filtered(category, c.Query("q"))
	c.JSON(http.StatusOK, ToThumbnailDTOs(thumbs))
}

// Upload runs the two-stage size gate: the raw file size is checked
// before any encoding work, the encoded length inside Create before
// any store call.
func (h *GalleryHandler) Upload(c *gin.Context) {
	session, ok := SessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("gallery session not found in context"))
		return
	}

	title := c.PostForm("title")
	if len(title) < thumbnail.MinTitleLength {
		c.Error(apperror.NewInvalidInput("title must be at least 3 characters", nil))
		return
	}

	category, err := thumbnail.ParseCategory(c.PostForm("category"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("a valid category is required", err))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.Error(apperror.NewPayloadTooLarge(
			fmt.Sprintf("file is %d bytes, upload limit is %d", fileHeader.Size, h.maxUploadBytes)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	imageData, err := datauri.EncodeReader(file)
	if err != nil {
		c.Error(apperror.NewInternal("failed to read uploaded file", err))
		return
	}

	rec, err := session.Create(c.Request.Context(), gallery.CreateInput{
		Title:     title,
		Category:  category,
		ImageData: imageData,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToThumbnailDTO(rec))
}

func (h *GalleryHandler) Update(c *gin.Context) {
	session, ok := SessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("gallery session not found in context"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid thumbnail ID", err))
		return
	}

	var req UpdateThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	category, err := thumbnail.ParseCategory(req.Category)
	if err != nil {
		c.Error(apperror.NewInvalidInput("a valid category is required", err))
		return
	}

	rec, err := session.Update(c.Request.Context(), gallery.UpdateInput{
		ID:       id,
		Title:    req.Title,
		Category: category,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToThumbnailDTO(rec))
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	session, ok := SessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("gallery session not found in context"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid thumbnail ID", err))
		return
	}

	if err := session.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Download decodes the stored data URI back into file bytes.
func (h *GalleryHandler) Download(c *gin.Context) {
	session, ok := SessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("gallery session not found in context"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid thumbnail ID", err))
		return
	}

	rec, found := session.Get(id)
	if !found {
		c.Error(apperror.NewNotFound("thumbnail", id.String()))
		return
	}

	mime, data, err := datauri.Decode(rec.ImageURL)
	if err != nil {
		c.Error(apperror.NewInternal("stored image is not decodable", err))
		return
	}

	filename := downloadFilename(rec.Title, mime)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, data)
}

func (h *GalleryHandler) Backup(c *gin.Context) {
	session, ok := SessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("gallery session not found in context"))
		return
	}

	output, err := h.backupUC.Execute(c.Request.Context(), session.OwnerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func downloadFilename(title, mime string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, title)

	ext := ".bin"
	if m := mimetype.Lookup(mime); m != nil && m.Extension() != "" {
		ext = m.Extension()
	}
	return name + ext
}
