package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mdx-cms/pkg/config"
	"mdx-cms/pkg/models"
	"mdx-cms/pkg/services"
)

func writeStandalone(t *testing.T, contentDir, slug string, article models.Article) {
	t.Helper()
	dir := filepath.Join(contentDir, "standalone")
	require.NoError(t, os.MkdirAll(dir, 0755))
	data, err := json.MarshalIndent(article, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".json"), data, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".mdx"), []byte("# Body\n"), 0644))
}

func testRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	resolver := services.NewResolver(cfg, log)
	mutator := services.NewMutator(cfg, log)

	api := &API{Resolver: resolver, Log: log}
	admin := &Admin{Mutator: mutator, Config: cfg, Log: log}
	preview := &Preview{Secret: cfg.PreviewSecret}

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("mdxcms", store))

	r.GET("/api/articles", api.ListArticles)
	r.GET("/api/articles/:slug", api.GetArticle)
	r.GET("/preview/enable", preview.Enable)
	r.GET("/preview/disable", preview.Disable)

	adminGroup := r.Group("/admin/api")
	adminGroup.Use(admin.RequireDevMode)
	adminGroup.POST("/article", admin.UpdateArticle)

	return r
}

func TestGetArticleNotFound(t *testing.T) {
	cfg := &config.Config{Env: "development", ContentDir: t.TempDir()}
	r := testRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/does-not-exist", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewRevealsDraftsInProduction(t *testing.T) {
	contentDir := t.TempDir()
	writeStandalone(t, contentDir, "secret-draft", models.Article{
		Title:  "Secret Draft",
		Date:   "2024-01-01",
		Status: models.StatusDraft,
	})
	cfg := &config.Config{Env: "production", ContentDir: contentDir, PreviewSecret: "letmein"}
	r := testRouter(t, cfg)

	// hidden without a preview session
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var articles []models.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &articles))
	assert.Empty(t, articles)

	// enable preview with the secret, keep the session cookie
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/preview/enable?secret=letmein", nil))
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "secret-draft", articles[0].Slug)
}

func TestPreviewEnableRequiresSecret(t *testing.T) {
	contentDir := t.TempDir()
	writeStandalone(t, contentDir, "secret-draft", models.Article{
		Title:  "Secret Draft",
		Date:   "2024-01-01",
		Status: models.StatusDraft,
	})
	cfg := &config.Config{Env: "production", ContentDir: contentDir, PreviewSecret: "letmein"}
	r := testRouter(t, cfg)

	// no secret
	enable := httptest.NewRecorder()
	r.ServeHTTP(enable, httptest.NewRequest(http.MethodGet, "/preview/enable", nil))
	assert.Equal(t, http.StatusUnauthorized, enable.Code)

	// wrong secret
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/preview/enable?secret=guess", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// drafts stay hidden for the rejected caller
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	for _, c := range enable.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var articles []models.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &articles))
	assert.Empty(t, articles)
}

func TestPreviewDisabledWithoutConfiguredSecret(t *testing.T) {
	cfg := &config.Config{Env: "production", ContentDir: t.TempDir()}
	r := testRouter(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/preview/enable", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminBlockedInProduction(t *testing.T) {
	cfg := &config.Config{Env: "production", ContentDir: t.TempDir()}
	r := testRouter(t, cfg)

	payload := bytes.NewBufferString(`{"articleSlug":"x","metadata":{"title":"New"}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/api/article", payload)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminUpdateArticle(t *testing.T) {
	contentDir := t.TempDir()
	writeStandalone(t, contentDir, "my-post", models.Article{
		Title:  "My Post",
		Date:   "2024-01-01",
		Status: models.StatusDraft,
	})
	cfg := &config.Config{Env: "development", ContentDir: contentDir}
	r := testRouter(t, cfg)

	payload := bytes.NewBufferString(`{"articleSlug":"my-post","metadata":{"title":"Renamed","status":"ready"}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/api/article", payload)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles/my-post", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Article models.Article `json:"article"`
		Body    string         `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Renamed", resp.Article.Title)
	assert.Equal(t, models.StatusReady, resp.Article.Status)
	assert.Equal(t, "# Body", resp.Body)
}
