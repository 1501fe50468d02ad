package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mdx-cms/pkg/services"
)

// API serves the public content endpoints.
type API struct {
	Resolver *services.Resolver
	Log      *zap.Logger
}

// resolver returns the request-scoped resolver. An active preview session
// turns visibility filtering off for this request.
func (h *API) resolver(c *gin.Context) *services.Resolver {
	if previewActive(c) {
		return h.Resolver.WithProduction(false)
	}
	return h.Resolver
}

func (h *API) ListArticles(c *gin.Context) {
	r := h.resolver(c)

	if tag := c.Query("tag"); tag != "" {
		articles, err := r.GetArticlesByTag(tag)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, articles)
		return
	}
	if category := c.Query("category"); category != "" {
		articles, err := r.GetArticlesByCategory(category)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, articles)
		return
	}

	articles, err := r.GetAllArticles()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *API) GetArticle(c *gin.Context) {
	r := h.resolver(c)
	nav, err := r.GetArticleBySlug(c.Param("slug"), c.Query("series"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article":     nav.Article,
		"prevArticle": nav.PrevArticle,
		"nextArticle": nav.NextArticle,
		"body":        r.ArticleBody(nav.Article),
	})
}

func (h *API) ListSeries(c *gin.Context) {
	series, err := h.resolver(c).GetAllSeries()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *API) GetSeries(c *gin.Context) {
	r := h.resolver(c)
	series, err := r.GetAllSeries()
	if err != nil {
		h.fail(c, err)
		return
	}
	slug := c.Param("slug")
	for _, s := range series {
		if s.Slug == slug {
			c.JSON(http.StatusOK, s)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Series not found"})
}

func (h *API) GetSeriesArticle(c *gin.Context) {
	r := h.resolver(c)
	nav, err := r.GetArticleBySlug(c.Param("articleSlug"), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article":     nav.Article,
		"prevArticle": nav.PrevArticle,
		"nextArticle": nav.NextArticle,
		"body":        r.ArticleBody(nav.Article),
	})
}

func (h *API) ListTags(c *gin.Context) {
	tags, err := h.resolver(c).GetAllTags()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *API) ListCategories(c *gin.Context) {
	categories, err := h.resolver(c).GetAllCategories()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// fail maps the service error taxonomy to HTTP statuses.
func (h *API) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.Log.Error("content request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve content"})
	}
}
