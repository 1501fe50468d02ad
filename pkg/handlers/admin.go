package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"mdx-cms/pkg/config"
	"mdx-cms/pkg/models"
	"mdx-cms/pkg/services"
)

var adminWritesCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "admin_content_writes_total",
		Help: "Total number of successful admin content writes.",
	},
)

func init() {
	prometheus.MustRegister(adminWritesCounter)
}

// Admin serves the development-only content management endpoints.
type Admin struct {
	Mutator *services.Mutator
	Config  *config.Config
	Log     *zap.Logger
}

// RequireDevMode rejects admin requests outside development. The mutator
// enforces the same gate; this keeps the whole route group dark in
// production.
func (h *Admin) RequireDevMode(c *gin.Context) {
	if !h.Config.IsDevelopment() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin is development-only"})
		return
	}
	c.Next()
}

func (h *Admin) Inventory(c *gin.Context) {
	items, err := services.GetInventoryCache(h.Config.ContentDir)
	if err != nil {
		h.Log.Error("inventory listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list content"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Admin) UpdateArticle(c *gin.Context) {
	var req struct {
		SeriesSlug  string              `json:"seriesSlug"`
		ArticleSlug string              `json:"articleSlug"`
		Metadata    models.ArticlePatch `json:"metadata"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.Mutator.UpdateArticleMetadata(req.SeriesSlug, req.ArticleSlug, req.Metadata); err != nil {
		h.fail(c, err)
		return
	}
	adminWritesCounter.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *Admin) UpdateArticleBody(c *gin.Context) {
	var req struct {
		SeriesSlug  string `json:"seriesSlug"`
		ArticleSlug string `json:"articleSlug"`
		Body        string `json:"body"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.Mutator.WriteArticleBody(req.SeriesSlug, req.ArticleSlug, req.Body); err != nil {
		h.fail(c, err)
		return
	}
	adminWritesCounter.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *Admin) CreateArticle(c *gin.Context) {
	var req struct {
		SeriesSlug string         `json:"seriesSlug"`
		Article    models.Article `json:"article"`
		Body       string         `json:"body"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	var created *models.Article
	var err error
	if req.SeriesSlug != "" {
		created, err = h.Mutator.CreateSeriesArticle(req.SeriesSlug, req.Article, req.Body)
	} else {
		created, err = h.Mutator.CreateStandaloneArticle(req.Article, req.Body)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	adminWritesCounter.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "created", "article": created})
}

func (h *Admin) UpdateSeries(c *gin.Context) {
	var req struct {
		SeriesSlug string             `json:"seriesSlug"`
		Metadata   models.SeriesPatch `json:"metadata"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.Mutator.UpdateSeriesMetadata(req.SeriesSlug, req.Metadata); err != nil {
		h.fail(c, err)
		return
	}
	adminWritesCounter.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *Admin) CreateSeries(c *gin.Context) {
	var req struct {
		Name        string             `json:"name"`
		Description string             `json:"description"`
		Metadata    models.SeriesPatch `json:"metadata"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	series, err := h.Mutator.CreateSeries(req.Name, req.Description, req.Metadata)
	if err != nil {
		h.fail(c, err)
		return
	}
	adminWritesCounter.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "created", "series": series})
}

func (h *Admin) UpdateSeriesSchedule(c *gin.Context) {
	var req struct {
		SeriesSlug      string                 `json:"seriesSlug"`
		Schedule        models.ReleaseSchedule `json:"schedule"`
		ApplyToArticles bool                   `json:"applyToArticles"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.Mutator.UpdateSeriesSchedule(req.SeriesSlug, req.Schedule, req.ApplyToArticles); err != nil {
		h.fail(c, err)
		return
	}
	adminWritesCounter.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *Admin) CalendarCSV(c *gin.Context) {
	items, err := services.GetInventoryCache(h.Config.ContentDir)
	if err != nil {
		h.Log.Error("calendar export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build calendar"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="content-calendar.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", services.CalendarCSV(items, h.Config.BaseURL))
}

func (h *Admin) CalendarICS(c *gin.Context) {
	items, err := services.GetInventoryCache(h.Config.ContentDir)
	if err != nil {
		h.Log.Error("calendar export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build calendar"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="content-calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", services.CalendarICS(items, h.Config.BaseURL))
}

func (h *Admin) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.Log.Error("admin write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Write failed"})
	}
}
