package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/storage"
)

// ImageStore keeps uploaded product images.
type ImageStore interface {
	Upload(ctx context.Context, img storage.Image) (string, error)
	Delete(ctx context.Context, url string) error
}

// UploadController handles product image uploads. A nil store disables it.
type UploadController struct {
	store ImageStore
}

func NewUploadController(store ImageStore) *UploadController {
	return &UploadController{store: store}
}

// UploadImage handles POST /api/admin/upload with a multipart "file" field.
func (uc *UploadController) UploadImage(c *gin.Context) {
	if uc.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "image storage is not configured"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		slog.Error("failed to open uploaded file", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to read file"})
		return
	}
	defer file.Close()

	url, err := uc.store.Upload(c.Request.Context(), storage.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			slog.Error("failed to upload image", slog.Any("err", err))
			msg = "failed to upload image"
		}
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}

	metrics.ImagesUploaded.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "image_url": url})
}

// DeleteImage handles DELETE /api/admin/images?url=.
func (uc *UploadController) DeleteImage(c *gin.Context) {
	if uc.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "image storage is not configured"})
		return
	}

	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "url is required"})
		return
	}

	if err := uc.store.Delete(c.Request.Context(), url); err != nil {
		respondError(c, err, "failed to delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
