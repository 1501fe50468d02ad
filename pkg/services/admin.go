package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"mdx-cms/pkg/config"
	"mdx-cms/pkg/models"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a human-supplied title or name:
// lowercased, non-alphanumeric runs collapsed to single hyphens, no
// leading or trailing hyphens.
func Slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// Mutator is the development-only write path for the content store. Every
// operation checks the injected dev-mode flag before touching disk; this
// gate is the only access control on the pipeline.
type Mutator struct {
	ContentDir string
	DevMode    bool
	log        *zap.Logger
}

func NewMutator(cfg *config.Config, log *zap.Logger) *Mutator {
	return &Mutator{
		ContentDir: cfg.ContentDir,
		DevMode:    cfg.IsDevelopment(),
		log:        log,
	}
}

func (m *Mutator) guard() error {
	if !m.DevMode {
		return fmt.Errorf("content writes are development-only: %w", ErrPermissionDenied)
	}
	return nil
}

func (m *Mutator) seriesDir(slug string) string {
	return filepath.Join(m.ContentDir, "series", slug)
}

func (m *Mutator) standalonePath(slug, ext string) string {
	return filepath.Join(m.ContentDir, "standalone", slug+ext)
}

// UpdateArticleMetadata shallow-merges the patch onto the stored record.
// For a series article the cached summary inside the parent series file
// is rewritten and re-sorted in the same call.
func (m *Mutator) UpdateArticleMetadata(seriesSlug, articleSlug string, patch models.ArticlePatch) error {
	if err := m.guard(); err != nil {
		return err
	}

	var recordPath string
	if seriesSlug != "" {
		recordPath = findSeriesFile(m.seriesDir(seriesSlug), articleSlug, ".json")
		if recordPath == "" {
			return fmt.Errorf("article %q in series %q: %w", articleSlug, seriesSlug, ErrNotFound)
		}
	} else {
		recordPath = m.standalonePath(articleSlug, ".json")
		if _, err := os.Stat(recordPath); err != nil {
			return fmt.Errorf("standalone article %q: %w", articleSlug, ErrNotFound)
		}
	}

	var article models.Article
	if err := readJSONFile(recordPath, &article); err != nil {
		return fmt.Errorf("reading article record: %w", err)
	}
	article.Slug = articleSlug
	applyArticlePatch(&article, patch)

	data, err := marshalRecord(article)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(recordPath, data); err != nil {
		return fmt.Errorf("writing article record: %w", err)
	}

	if seriesSlug != "" {
		if err := m.syncSeriesSummary(seriesSlug, article); err != nil {
			return err
		}
	}

	m.log.Info("article metadata updated",
		zap.String("slug", articleSlug),
		zap.String("series", seriesSlug))
	InvalidateInventory()
	return nil
}

// UpdateSeriesMetadata shallow-merges the patch onto the series record.
// The slug and the cached article list are never replaced here.
func (m *Mutator) UpdateSeriesMetadata(seriesSlug string, patch models.SeriesPatch) error {
	if err := m.guard(); err != nil {
		return err
	}

	recordPath := filepath.Join(m.seriesDir(seriesSlug), "_series.json")
	var series models.Series
	if err := readJSONFile(recordPath, &series); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("series %q: %w", seriesSlug, ErrNotFound)
		}
		return fmt.Errorf("reading series record: %w", err)
	}

	applySeriesPatch(&series, patch)

	data, err := marshalRecord(series)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(recordPath, data); err != nil {
		return fmt.Errorf("writing series record: %w", err)
	}

	m.log.Info("series metadata updated", zap.String("slug", seriesSlug))
	InvalidateInventory()
	return nil
}

// CreateSeries creates the series directory and its metadata record. The
// slug is derived from the name; an existing series under that slug is a
// conflict.
func (m *Mutator) CreateSeries(name, description string, extra models.SeriesPatch) (*models.Series, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}

	slug := Slugify(name)
	dir := m.seriesDir(slug)
	if _, err := os.Stat(filepath.Join(dir, "_series.json")); err == nil {
		return nil, fmt.Errorf("series %q: %w", slug, ErrAlreadyExists)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating series directory: %w", err)
	}

	series := models.Series{
		Name:        name,
		Description: description,
		Slug:        slug,
		Status:      models.StatusDraft,
		Articles:    []models.ArticleSummary{},
	}
	applySeriesPatch(&series, extra)

	data, err := marshalRecord(series)
	if err != nil {
		return nil, err
	}
	if err := atomicWriteFile(filepath.Join(dir, "_series.json"), data); err != nil {
		return nil, fmt.Errorf("writing series record: %w", err)
	}

	m.log.Info("series created", zap.String("slug", slug))
	InvalidateInventory()
	return &series, nil
}

// CreateSeriesArticle writes a new article record and body file into a
// series directory and appends its summary to the series record. The
// filename carries a zero-padded order prefix; the externally visible
// slug excludes it.
func (m *Mutator) CreateSeriesArticle(seriesSlug string, article models.Article, body string) (*models.Article, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}

	dir := m.seriesDir(seriesSlug)
	if _, err := os.Stat(filepath.Join(dir, "_series.json")); err != nil {
		return nil, fmt.Errorf("series %q: %w", seriesSlug, ErrNotFound)
	}

	slug := Slugify(article.Title)
	if findSeriesFile(dir, slug, ".json") != "" {
		return nil, fmt.Errorf("article %q in series %q: %w", slug, seriesSlug, ErrAlreadyExists)
	}

	article.Slug = slug
	article.SeriesSlug = seriesSlug
	if article.Status == "" {
		article.Status = models.StatusDraft
	}

	base := fmt.Sprintf("%02d-%s", article.Order, slug)
	data, err := marshalRecord(article)
	if err != nil {
		return nil, err
	}
	if err := atomicWriteFile(filepath.Join(dir, base+".json"), data); err != nil {
		return nil, fmt.Errorf("writing article record: %w", err)
	}
	if err := atomicWriteFile(filepath.Join(dir, base+".mdx"), []byte(body+"\n")); err != nil {
		return nil, fmt.Errorf("writing article body: %w", err)
	}

	if err := m.syncSeriesSummary(seriesSlug, article); err != nil {
		return nil, err
	}

	m.log.Info("series article created",
		zap.String("slug", slug),
		zap.String("series", seriesSlug))
	InvalidateInventory()
	return &article, nil
}

// CreateStandaloneArticle writes a new record and body file into the
// standalone directory.
func (m *Mutator) CreateStandaloneArticle(article models.Article, body string) (*models.Article, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}

	slug := Slugify(article.Title)
	recordPath := m.standalonePath(slug, ".json")
	if _, err := os.Stat(recordPath); err == nil {
		return nil, fmt.Errorf("standalone article %q: %w", slug, ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(recordPath), 0755); err != nil {
		return nil, fmt.Errorf("creating standalone directory: %w", err)
	}

	article.Slug = slug
	article.SeriesSlug = ""
	article.IsStandalone = true
	if article.Status == "" {
		article.Status = models.StatusDraft
	}

	data, err := marshalRecord(article)
	if err != nil {
		return nil, err
	}
	if err := atomicWriteFile(recordPath, data); err != nil {
		return nil, fmt.Errorf("writing article record: %w", err)
	}
	if err := atomicWriteFile(m.standalonePath(slug, ".mdx"), []byte(body+"\n")); err != nil {
		return nil, fmt.Errorf("writing article body: %w", err)
	}

	m.log.Info("standalone article created", zap.String("slug", slug))
	InvalidateInventory()
	return &article, nil
}

// WriteArticleBody replaces the MDX body of an existing article. A body
// that still opens with a legacy front matter block is normalized: the
// metadata is merged into the JSON record and stripped from the file.
func (m *Mutator) WriteArticleBody(seriesSlug, articleSlug, body string) error {
	if err := m.guard(); err != nil {
		return err
	}

	var recordPath string
	if seriesSlug != "" {
		recordPath = findSeriesFile(m.seriesDir(seriesSlug), articleSlug, ".json")
		if recordPath == "" {
			return fmt.Errorf("article %q in series %q: %w", articleSlug, seriesSlug, ErrNotFound)
		}
	} else {
		recordPath = m.standalonePath(articleSlug, ".json")
		if _, err := os.Stat(recordPath); err != nil {
			return fmt.Errorf("standalone article %q: %w", articleSlug, ErrNotFound)
		}
	}
	bodyPath := strings.TrimSuffix(recordPath, ".json") + ".mdx"

	if err := atomicWriteFile(bodyPath, []byte(body+"\n")); err != nil {
		return fmt.Errorf("writing article body: %w", err)
	}
	if err := NormalizeArticleFile(recordPath, bodyPath); err != nil {
		return fmt.Errorf("normalizing article body: %w", err)
	}

	if seriesSlug != "" {
		var article models.Article
		if err := readJSONFile(recordPath, &article); err != nil {
			return fmt.Errorf("reading article record: %w", err)
		}
		article.Slug = articleSlug
		if err := m.syncSeriesSummary(seriesSlug, article); err != nil {
			return err
		}
	}
	InvalidateInventory()
	return nil
}

// UpdateSeriesSchedule stores a new release schedule on a series, marks
// it scheduled, and optionally recomputes and persists the publish date
// of every article in it.
func (m *Mutator) UpdateSeriesSchedule(seriesSlug string, schedule models.ReleaseSchedule, applyToArticles bool) error {
	status := models.StatusScheduled
	if err := m.UpdateSeriesMetadata(seriesSlug, models.SeriesPatch{
		ReleaseSchedule: &schedule,
		Status:          &status,
	}); err != nil {
		return err
	}
	if !applyToArticles {
		return nil
	}

	// Mutators only run in development, where visibility filtering is
	// off, so this resolver sees drafts too.
	resolver := &Resolver{ContentDir: m.ContentDir, Production: false, log: m.log}

	var series models.Series
	if err := readJSONFile(filepath.Join(m.seriesDir(seriesSlug), "_series.json"), &series); err != nil {
		return fmt.Errorf("reading series record: %w", err)
	}
	articles, err := resolver.GetArticlesBySeries(seriesSlug)
	if err != nil {
		return err
	}

	for _, article := range CalculatePublishDates(series, articles) {
		status := article.Status
		publishDate := article.PublishDate
		err := m.UpdateArticleMetadata(seriesSlug, article.Slug, models.ArticlePatch{
			Status:      &status,
			PublishDate: &publishDate,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// syncSeriesSummary rewrites the summary entry for one article inside the
// parent series record and re-sorts the list by order. This is the
// cross-file consistency obligation the mutator owns.
func (m *Mutator) syncSeriesSummary(seriesSlug string, article models.Article) error {
	recordPath := filepath.Join(m.seriesDir(seriesSlug), "_series.json")
	var series models.Series
	if err := readJSONFile(recordPath, &series); err != nil {
		return fmt.Errorf("reading series record: %w", err)
	}

	summary := models.ArticleSummary{
		Title:       article.Title,
		Description: article.Description,
		Slug:        article.Slug,
		Order:       article.Order,
		Status:      article.Status,
		PublishDate: article.PublishDate,
	}

	replaced := false
	for i := range series.Articles {
		if series.Articles[i].Slug == article.Slug {
			series.Articles[i] = summary
			replaced = true
			break
		}
	}
	if !replaced {
		series.Articles = append(series.Articles, summary)
	}

	sort.SliceStable(series.Articles, func(i, j int) bool {
		return series.Articles[i].Order < series.Articles[j].Order
	})

	data, err := marshalRecord(series)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(recordPath, data); err != nil {
		return fmt.Errorf("writing series record: %w", err)
	}
	return nil
}

func applyArticlePatch(article *models.Article, patch models.ArticlePatch) {
	if patch.Title != nil {
		article.Title = *patch.Title
	}
	if patch.Description != nil {
		article.Description = *patch.Description
	}
	if patch.Author != nil {
		article.Author = *patch.Author
	}
	if patch.Date != nil {
		article.Date = *patch.Date
	}
	if patch.Tags != nil {
		article.Tags = *patch.Tags
	}
	if patch.Category != nil {
		article.Category = *patch.Category
	}
	if patch.Order != nil {
		article.Order = *patch.Order
	}
	if patch.CoverImage != nil {
		article.CoverImage = *patch.CoverImage
	}
	if patch.Status != nil {
		article.Status = *patch.Status
	}
	if patch.PublishDate != nil {
		article.PublishDate = *patch.PublishDate
	}
	if patch.SocialMedia != nil {
		article.SocialMedia = patch.SocialMedia
	}
}

func applySeriesPatch(series *models.Series, patch models.SeriesPatch) {
	if patch.Name != nil {
		series.Name = *patch.Name
	}
	if patch.Description != nil {
		series.Description = *patch.Description
	}
	if patch.Category != nil {
		series.Category = *patch.Category
	}
	if patch.CoverImage != nil {
		series.CoverImage = *patch.CoverImage
	}
	if patch.Status != nil {
		series.Status = *patch.Status
	}
	if patch.PublishDate != nil {
		series.PublishDate = *patch.PublishDate
	}
	if patch.ReleaseSchedule != nil {
		series.ReleaseSchedule = patch.ReleaseSchedule
	}
	if patch.SocialMedia != nil {
		series.SocialMedia = patch.SocialMedia
	}
}
