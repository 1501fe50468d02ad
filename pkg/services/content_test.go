package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mdx-cms/pkg/models"
)

func devResolver(dir string) *Resolver {
	return &Resolver{ContentDir: dir, Production: false, log: zap.NewNop()}
}

func prodResolver(dir string) *Resolver {
	return &Resolver{ContentDir: dir, Production: true, log: zap.NewNop()}
}

func writeRecord(t *testing.T, path string, v interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	data, err := marshalRecord(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func writeSeriesFixture(t *testing.T, root, slug string, series models.Series) {
	t.Helper()
	series.Slug = slug
	writeRecord(t, filepath.Join(root, "series", slug, "_series.json"), series)
}

func writeSeriesArticle(t *testing.T, root, seriesSlug, filename string, article models.Article, body string) {
	t.Helper()
	dir := filepath.Join(root, "series", seriesSlug)
	writeRecord(t, filepath.Join(dir, filename+".json"), article)
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename+".mdx"), []byte(body), 0644))
}

func writeStandaloneArticle(t *testing.T, root, slug string, article models.Article, body string) {
	t.Helper()
	dir := filepath.Join(root, "standalone")
	writeRecord(t, filepath.Join(dir, slug+".json"), article)
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".mdx"), []byte(body), 0644))
}

func TestArticlesBySeriesSortedByOrder(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics", Status: models.StatusPublished})
	// filesystem order (alphabetical by filename) disagrees with order fields
	writeSeriesArticle(t, root, "go-basics", "01-interfaces",
		models.Article{Title: "Interfaces", Date: "2024-02-10", Order: 2, Status: models.StatusPublished}, "body")
	writeSeriesArticle(t, root, "go-basics", "02-syntax",
		models.Article{Title: "Syntax", Date: "2024-02-01", Order: 1, Status: models.StatusPublished}, "body")

	articles, err := devResolver(root).GetArticlesBySeries("go-basics")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "syntax", articles[0].Slug)
	assert.Equal(t, "interfaces", articles[1].Slug)
	assert.Equal(t, "go-basics", articles[0].SeriesSlug)
	assert.Equal(t, 1, articles[0].Order)
}

func TestArticlesBySeriesSkipsSeriesRecord(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics"})
	writeSeriesArticle(t, root, "go-basics", "01-syntax",
		models.Article{Title: "Syntax", Date: "2024-02-01", Order: 1}, "body")

	articles, err := devResolver(root).GetArticlesBySeries("go-basics")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "syntax", articles[0].Slug)
}

func TestProductionFiltersDrafts(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics", Status: models.StatusPublished})
	writeSeriesArticle(t, root, "go-basics", "01-syntax",
		models.Article{Title: "Syntax", Date: "2024-02-01", Order: 1, Status: models.StatusPublished}, "body")
	writeSeriesArticle(t, root, "go-basics", "02-generics",
		models.Article{Title: "Generics", Date: "2024-02-08", Order: 2, Status: models.StatusDraft}, "body")

	prod, err := prodResolver(root).GetArticlesBySeries("go-basics")
	require.NoError(t, err)
	require.Len(t, prod, 1)
	assert.Equal(t, "syntax", prod[0].Slug)

	dev, err := devResolver(root).GetArticlesBySeries("go-basics")
	require.NoError(t, err)
	assert.Len(t, dev, 2)
}

func TestDraftSeriesHiddenInProduction(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "published", models.Series{Name: "Published", Status: models.StatusPublished})
	writeSeriesFixture(t, root, "secret", models.Series{Name: "Secret", Status: models.StatusDraft})

	series, err := prodResolver(root).GetAllSeries()
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "published", series[0].Slug)

	all, err := devResolver(root).GetAllSeries()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAllArticlesNewestFirst(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics", Status: models.StatusPublished})
	writeSeriesArticle(t, root, "go-basics", "01-syntax",
		models.Article{Title: "Syntax", Date: "2024-02-01", Order: 1, Status: models.StatusPublished}, "body")
	writeStandaloneArticle(t, root, "yearly-review",
		models.Article{Title: "Yearly Review", Date: "2024-06-01", Status: models.StatusPublished}, "body")
	writeStandaloneArticle(t, root, "old-post",
		models.Article{Title: "Old Post", Date: "2023-01-01", Status: models.StatusPublished}, "body")

	articles, err := devResolver(root).GetAllArticles()
	require.NoError(t, err)
	require.Len(t, articles, 3)

	for i := 1; i < len(articles); i++ {
		assert.GreaterOrEqual(t, articles[i-1].Date, articles[i].Date)
	}
	assert.Equal(t, "yearly-review", articles[0].Slug)
	assert.True(t, articles[0].IsStandalone)
}

func TestArticleBySlugWithinSeries(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics", Status: models.StatusPublished})
	writeSeriesArticle(t, root, "go-basics", "01-syntax",
		models.Article{Title: "Syntax", Date: "2024-02-01", Order: 1, Status: models.StatusPublished}, "body")
	writeSeriesArticle(t, root, "go-basics", "02-interfaces",
		models.Article{Title: "Interfaces", Date: "2024-02-08", Order: 2, Status: models.StatusPublished}, "body")
	writeSeriesArticle(t, root, "go-basics", "03-generics",
		models.Article{Title: "Generics", Date: "2024-02-15", Order: 3, Status: models.StatusPublished}, "body")

	nav, err := devResolver(root).GetArticleBySlug("interfaces", "go-basics")
	require.NoError(t, err)
	assert.Equal(t, "interfaces", nav.Article.Slug)
	require.NotNil(t, nav.PrevArticle)
	require.NotNil(t, nav.NextArticle)
	assert.Equal(t, "syntax", nav.PrevArticle.Slug)
	assert.Equal(t, "generics", nav.NextArticle.Slug)

	first, err := devResolver(root).GetArticleBySlug("syntax", "go-basics")
	require.NoError(t, err)
	assert.Nil(t, first.PrevArticle)
	require.NotNil(t, first.NextArticle)
}

func TestArticleBySlugFallsBackToSeriesScan(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics", Status: models.StatusPublished})
	writeSeriesArticle(t, root, "go-basics", "01-syntax",
		models.Article{Title: "Syntax", Date: "2024-02-01", Order: 1, Status: models.StatusPublished}, "body")
	writeStandaloneArticle(t, root, "yearly-review",
		models.Article{Title: "Yearly Review", Date: "2024-06-01", Status: models.StatusPublished}, "body")

	// standalone hit without a series scope
	nav, err := devResolver(root).GetArticleBySlug("yearly-review", "")
	require.NoError(t, err)
	assert.True(t, nav.Article.IsStandalone)
	assert.Nil(t, nav.PrevArticle)

	// series article found without naming the series
	nav, err = devResolver(root).GetArticleBySlug("syntax", "")
	require.NoError(t, err)
	assert.Equal(t, "go-basics", nav.Article.SeriesSlug)
}

func TestArticleBySlugNotFound(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics", Status: models.StatusPublished})

	_, err := devResolver(root).GetArticleBySlug("does-not-exist", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = devResolver(root).GetArticleBySlug("does-not-exist", "go-basics")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagAndCategoryQueries(t *testing.T) {
	root := t.TempDir()
	writeStandaloneArticle(t, root, "go-post",
		models.Article{Title: "Go Post", Date: "2024-01-01", Tags: []string{"go", "testing"}, Category: "programming", Status: models.StatusPublished}, "body")
	writeStandaloneArticle(t, root, "life-post",
		models.Article{Title: "Life Post", Date: "2024-02-01", Tags: []string{"life"}, Status: models.StatusPublished}, "body")

	r := devResolver(root)

	byTag, err := r.GetArticlesByTag("go")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "go-post", byTag[0].Slug)

	byCategory, err := r.GetArticlesByCategory("programming")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	tags, err := r.GetAllTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "life", "testing"}, tags)

	categories, err := r.GetAllCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"programming"}, categories)
}

func TestContentPublishedOn(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "launched", models.Series{
		Name: "Launched", Status: models.StatusPublished, PublishDate: "2024-05-01",
		SocialMedia: &models.SocialMediaFlags{LinkedIn: true},
	})
	writeStandaloneArticle(t, root, "launch-day",
		models.Article{Title: "Launch Day", Date: "2024-05-01", PublishDate: "2024-05-01", Status: models.StatusPublished}, "body")
	writeStandaloneArticle(t, root, "still-scheduled",
		models.Article{Title: "Later", Date: "2024-05-01", PublishDate: "2024-05-01", Status: models.StatusScheduled}, "body")
	writeStandaloneArticle(t, root, "other-day",
		models.Article{Title: "Other Day", Date: "2024-04-01", PublishDate: "2024-04-01", Status: models.StatusPublished}, "body")

	articles, series, err := devResolver(root).ContentPublishedOn("2024-05-01")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "launch-day", articles[0].Slug)
	require.Len(t, series, 1)
	assert.Equal(t, "launched", series[0].Slug)
}

func TestArticleBody(t *testing.T) {
	root := t.TempDir()
	writeSeriesFixture(t, root, "go-basics", models.Series{Name: "Go Basics", Status: models.StatusPublished})
	writeSeriesArticle(t, root, "go-basics", "01-syntax",
		models.Article{Title: "Syntax", Date: "2024-02-01", Order: 1, Status: models.StatusPublished},
		"# Syntax\n\nSome prose.\n")
	writeStandaloneArticle(t, root, "no-body",
		models.Article{Title: "No Body", Date: "2024-01-01", Status: models.StatusPublished}, "body")
	require.NoError(t, os.Remove(filepath.Join(root, "standalone", "no-body.mdx")))

	r := devResolver(root)

	articles, err := r.GetArticlesBySeries("go-basics")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "# Syntax\n\nSome prose.", r.ArticleBody(articles[0]))

	// a missing body file is tolerated
	missing, err := r.GetArticleBySlug("no-body", "")
	require.NoError(t, err)
	assert.Empty(t, r.ArticleBody(missing.Article))
}
