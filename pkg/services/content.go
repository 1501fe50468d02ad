package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"mdx-cms/pkg/config"
	"mdx-cms/pkg/models"
)

// Resolver aggregates the on-disk content store into typed collections.
// Every call re-reads the file system; there is no caching between
// requests.
type Resolver struct {
	ContentDir string
	Production bool
	log        *zap.Logger
}

func NewResolver(cfg *config.Config, log *zap.Logger) *Resolver {
	return &Resolver{
		ContentDir: cfg.ContentDir,
		Production: cfg.IsProduction(),
		log:        log,
	}
}

// WithProduction returns a copy of the resolver with the production flag
// replaced. Handlers use this to honor a preview session.
func (r *Resolver) WithProduction(production bool) *Resolver {
	clone := *r
	clone.Production = production
	return &clone
}

func (r *Resolver) seriesDir() string {
	return filepath.Join(r.ContentDir, "series")
}

func (r *Resolver) standaloneDir() string {
	return filepath.Join(r.ContentDir, "standalone")
}

// GetAllSeries loads every series with its visibility-filtered article
// list attached, then filters the series themselves by visibility.
func (r *Resolver) GetAllSeries() ([]models.ResolvedSeries, error) {
	entries, err := os.ReadDir(r.seriesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading series directory: %w", err)
	}

	var result []models.ResolvedSeries
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var series models.Series
		if err := readJSONFile(filepath.Join(r.seriesDir(), entry.Name(), "_series.json"), &series); err != nil {
			return nil, fmt.Errorf("reading series %s: %w", entry.Name(), err)
		}
		if !IsContentVisible(r.Production, series.Status, series.PublishDate) {
			continue
		}
		articles, err := r.GetArticlesBySeries(entry.Name())
		if err != nil {
			return nil, err
		}
		result = append(result, models.ResolvedSeries{Series: series, Articles: articles})
	}
	return result, nil
}

// GetArticlesBySeries reads every article record in a series directory,
// attaches the owning series slug and the filename-derived slug, filters
// by visibility and sorts ascending by order.
func (r *Resolver) GetArticlesBySeries(seriesSlug string) ([]models.Article, error) {
	dir := filepath.Join(r.seriesDir(), seriesSlug)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", seriesSlug, ErrNotFound)
	}

	var articles []models.Article
	for _, entry := range entries {
		if entry.IsDir() || !isRecordFile(entry.Name()) {
			continue
		}
		var article models.Article
		if err := readJSONFile(filepath.Join(dir, entry.Name()), &article); err != nil {
			return nil, fmt.Errorf("reading article %s/%s: %w", seriesSlug, entry.Name(), err)
		}
		article.Slug = slugFromFilename(entry.Name())
		article.SeriesSlug = seriesSlug
		if !IsContentVisible(r.Production, article.Status, article.PublishDate) {
			continue
		}
		articles = append(articles, article)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Order < articles[j].Order
	})
	return articles, nil
}

// GetStandaloneArticles reads every record in the standalone directory,
// filtered by visibility. Natural file order is kept.
func (r *Resolver) GetStandaloneArticles() ([]models.Article, error) {
	entries, err := os.ReadDir(r.standaloneDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading standalone directory: %w", err)
	}

	var articles []models.Article
	for _, entry := range entries {
		if entry.IsDir() || !isRecordFile(entry.Name()) {
			continue
		}
		var article models.Article
		if err := readJSONFile(filepath.Join(r.standaloneDir(), entry.Name()), &article); err != nil {
			return nil, fmt.Errorf("reading standalone article %s: %w", entry.Name(), err)
		}
		article.Slug = slugFromFilename(entry.Name())
		article.IsStandalone = true
		if !IsContentVisible(r.Production, article.Status, article.PublishDate) {
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// GetAllArticles merges every visible series article with every visible
// standalone article, newest first. Series listings sort by order; this
// global view sorts descending by publication date.
func (r *Resolver) GetAllArticles() ([]models.Article, error) {
	series, err := r.GetAllSeries()
	if err != nil {
		return nil, err
	}
	standalone, err := r.GetStandaloneArticles()
	if err != nil {
		return nil, err
	}

	var articles []models.Article
	for _, s := range series {
		articles = append(articles, s.Articles...)
	}
	articles = append(articles, standalone...)

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date > articles[j].Date
	})
	return articles, nil
}

// GetArticleBySlug resolves an article and its neighbors. With a series
// slug the lookup is scoped to that series; otherwise standalone articles
// are searched first and every series after that.
func (r *Resolver) GetArticleBySlug(slug, seriesSlug string) (*models.ArticleNavigation, error) {
	if seriesSlug != "" {
		articles, err := r.GetArticlesBySeries(seriesSlug)
		if err != nil {
			return nil, err
		}
		nav := navigationFor(articles, slug)
		if nav == nil {
			return nil, fmt.Errorf("article %q in series %q: %w", slug, seriesSlug, ErrNotFound)
		}
		return nav, nil
	}

	standalone, err := r.GetStandaloneArticles()
	if err != nil {
		return nil, err
	}
	for _, article := range standalone {
		if article.Slug == slug {
			return &models.ArticleNavigation{Article: article}, nil
		}
	}

	series, err := r.GetAllSeries()
	if err != nil {
		return nil, err
	}
	for _, s := range series {
		if nav := navigationFor(s.Articles, slug); nav != nil {
			return nav, nil
		}
	}
	return nil, fmt.Errorf("article %q: %w", slug, ErrNotFound)
}

func navigationFor(articles []models.Article, slug string) *models.ArticleNavigation {
	for i, article := range articles {
		if article.Slug != slug {
			continue
		}
		nav := &models.ArticleNavigation{Article: article}
		if i > 0 {
			prev := articles[i-1]
			nav.PrevArticle = &prev
		}
		if i < len(articles)-1 {
			next := articles[i+1]
			nav.NextArticle = &next
		}
		return nav
	}
	return nil
}

// GetArticlesByTag filters the global listing by tag.
func (r *Resolver) GetArticlesByTag(tag string) ([]models.Article, error) {
	articles, err := r.GetAllArticles()
	if err != nil {
		return nil, err
	}
	var matched []models.Article
	for _, article := range articles {
		for _, t := range article.Tags {
			if t == tag {
				matched = append(matched, article)
				break
			}
		}
	}
	return matched, nil
}

// GetArticlesByCategory filters the global listing by category.
func (r *Resolver) GetArticlesByCategory(category string) ([]models.Article, error) {
	articles, err := r.GetAllArticles()
	if err != nil {
		return nil, err
	}
	var matched []models.Article
	for _, article := range articles {
		if article.Category == category {
			matched = append(matched, article)
		}
	}
	return matched, nil
}

// GetAllTags returns the sorted set of tags across visible articles.
func (r *Resolver) GetAllTags() ([]string, error) {
	articles, err := r.GetAllArticles()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, article := range articles {
		for _, tag := range article.Tags {
			seen[tag] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// GetAllCategories returns the sorted set of categories across visible
// articles.
func (r *Resolver) GetAllCategories() ([]string, error) {
	articles, err := r.GetAllArticles()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, article := range articles {
		if article.Category != "" {
			seen[article.Category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

// ContentPublishedOn returns the articles and series whose publish date
// equals the given day and whose status is published. The social dispatch
// and newsletter jobs run on this query.
func (r *Resolver) ContentPublishedOn(date string) ([]models.Article, []models.Series, error) {
	articles, err := r.GetAllArticles()
	if err != nil {
		return nil, nil, err
	}
	series, err := r.GetAllSeries()
	if err != nil {
		return nil, nil, err
	}

	var dueArticles []models.Article
	for _, article := range articles {
		if article.PublishDate == date && article.Status == models.StatusPublished {
			dueArticles = append(dueArticles, article)
		}
	}
	var dueSeries []models.Series
	for _, s := range series {
		if s.PublishDate == date && s.Status == models.StatusPublished {
			dueSeries = append(dueSeries, s.Series)
		}
	}
	return dueArticles, dueSeries, nil
}

// ArticleBody loads the MDX body stored next to an article's record. A
// missing body file is tolerated: callers get an empty string and the
// gap is logged.
func (r *Resolver) ArticleBody(article models.Article) string {
	var path string
	if article.SeriesSlug != "" {
		path = findSeriesFile(filepath.Join(r.seriesDir(), article.SeriesSlug), article.Slug, ".mdx")
	} else {
		path = filepath.Join(r.standaloneDir(), article.Slug+".mdx")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		r.log.Warn("article body missing",
			zap.String("slug", article.Slug),
			zap.String("series", article.SeriesSlug))
		return ""
	}
	return StripFrontMatter(content)
}
