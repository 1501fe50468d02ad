package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mdx-cms/pkg/config"
	"mdx-cms/pkg/services"
)

// Media serves cover-image upload and listing for the admin surface.
type Media struct {
	Config *config.Config
	Log    *zap.Logger
}

func (h *Media) List(c *gin.Context) {
	files, err := services.ListMediaFiles(h.Config.MediaDir, h.Config.MediaPublicPrefix)
	if err != nil {
		h.Log.Error("media listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list media"})
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *Media) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	file, err := services.SaveMediaFile(h.Config.MediaDir, h.Config.MediaPublicPrefix, header)
	if err != nil {
		h.Log.Error("media upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	c.JSON(http.StatusOK, file)
}

func (h *Media) Delete(c *gin.Context) {
	if err := services.DeleteMediaFile(h.Config.MediaDir, c.Param("name")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
