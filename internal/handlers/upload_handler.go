package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/middleware"
	"inventory/internal/upload"
)

type UploadHandler struct {
	client *upload.Client
	logger *zap.Logger
}

func NewUploadHandler(client *upload.Client, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		client: client,
		logger: logger,
	}
}

// UploadConfig expone los datos para la subida directa desde el navegador
func (h *UploadHandler) UploadConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.Config())
}

// UploadImage reenvía una imagen al host de imágenes
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if !h.client.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image uploads are not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxFileSize+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": []gin.H{{
			"field": "file", "tag": "required", "message": "file is required",
		}}})
		return
	}
	if header.Size > upload.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File exceeds 10 MiB"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err, "Failed to read upload")
		return
	}
	defer file.Close()

	url, err := h.client.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, upload.ErrUpstream) {
			h.logger.Warn("image upload failed",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err),
			)
			c.JSON(http.StatusBadGateway, gin.H{"message": "Image host rejected the upload"})
			return
		}
		respondError(c, h.logger, err, "Failed to upload image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
