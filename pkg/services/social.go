package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mdx-cms/pkg/models"
)

// KnownPlatforms are the cross-posting targets content can opt into.
var KnownPlatforms = []string{"linkedin", "twitter", "facebook", "devto"}

// PublishItem is the platform-neutral payload handed to a publisher.
type PublishItem struct {
	ContentID   string
	ContentType string // "article" or "series"
	Title       string
	Description string
	URL         string
	Category    string
	Tags        []string
}

// Publisher posts one piece of content to one platform. The real HTTP
// integrations live outside this repository; the built-in publisher only
// announces the post.
type Publisher interface {
	Platform() string
	Publish(item PublishItem) error
}

// logPublisher records the post through the structured log and does
// nothing else.
type logPublisher struct {
	platform string
	log      *zap.Logger
}

func NewLogPublisher(platform string, log *zap.Logger) Publisher {
	return &logPublisher{platform: platform, log: log}
}

func (p *logPublisher) Platform() string { return p.platform }

func (p *logPublisher) Publish(item PublishItem) error {
	p.log.Info("social post",
		zap.String("platform", p.platform),
		zap.String("contentType", item.ContentType),
		zap.String("contentId", item.ContentID),
		zap.String("url", item.URL))
	return nil
}

// PostLogEntry is one line of the on-disk social posting audit log.
type PostLogEntry struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Platform    string `json:"platform"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// PlatformResult counts dispatch outcomes for one platform.
type PlatformResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// DispatchResult maps platform name to its outcome counts.
type DispatchResult map[string]*PlatformResult

// Total returns the number of successful posts across platforms.
func (r DispatchResult) Total() int {
	total := 0
	for _, res := range r {
		total += res.Success
	}
	return total
}

// SocialDispatcher fans content published on a given day out to every
// platform its social flags select, recording each attempt in the audit
// log.
type SocialDispatcher struct {
	resolver   *Resolver
	publishers []Publisher
	baseURL    string
	logDir     string
	log        *zap.Logger
}

func NewSocialDispatcher(resolver *Resolver, publishers []Publisher, baseURL, logDir string, log *zap.Logger) *SocialDispatcher {
	return &SocialDispatcher{
		resolver:   resolver,
		publishers: publishers,
		baseURL:    baseURL,
		logDir:     logDir,
		log:        log,
	}
}

// Dispatch runs the published-today query for the given date and posts
// every opted-in article and series. Per-platform failures are counted
// and logged, never fatal for the rest of the batch.
func (d *SocialDispatcher) Dispatch(date string) (DispatchResult, error) {
	articles, series, err := d.resolver.ContentPublishedOn(date)
	if err != nil {
		return nil, err
	}

	result := make(DispatchResult)
	for _, p := range d.publishers {
		result[p.Platform()] = &PlatformResult{}
	}

	for _, article := range articles {
		if !article.SocialMedia.Any() {
			continue
		}
		item := PublishItem{
			ContentID:   article.Slug,
			ContentType: "article",
			Title:       article.Title,
			Description: article.Description,
			URL:         ContentURL(d.baseURL, "article", article.SeriesSlug, article.Slug),
			Category:    article.Category,
			Tags:        article.Tags,
		}
		d.publish(item, article.SocialMedia, result)
	}
	for _, s := range series {
		if !s.SocialMedia.Any() {
			continue
		}
		item := PublishItem{
			ContentID:   s.Slug,
			ContentType: "series",
			Title:       s.Name,
			Description: s.Description,
			URL:         ContentURL(d.baseURL, "series", "", s.Slug),
			Category:    s.Category,
		}
		d.publish(item, s.SocialMedia, result)
	}
	return result, nil
}

func (d *SocialDispatcher) publish(item PublishItem, flags *models.SocialMediaFlags, result DispatchResult) {
	for _, p := range d.publishers {
		if !flags.Enabled(p.Platform()) {
			continue
		}
		err := p.Publish(item)
		entry := PostLogEntry{
			ID:          uuid.NewString(),
			Timestamp:   time.Now().Format(time.RFC3339),
			Platform:    p.Platform(),
			ContentID:   item.ContentID,
			ContentType: item.ContentType,
			Success:     err == nil,
		}
		if err != nil {
			entry.Error = err.Error()
			result[p.Platform()].Failed++
			d.log.Error("social publish failed",
				zap.String("platform", p.Platform()),
				zap.String("contentId", item.ContentID),
				zap.Error(err))
		} else {
			result[p.Platform()].Success++
		}
		if err := d.appendPostLog(entry); err != nil {
			d.log.Warn("social post log write failed", zap.Error(err))
		}
	}
}

func (d *SocialDispatcher) appendPostLog(entry PostLogEntry) error {
	if err := os.MkdirAll(d.logDir, 0755); err != nil {
		return err
	}
	logFile := filepath.Join(d.logDir, "social-posts.json")

	var entries []PostLogEntry
	if content, err := os.ReadFile(logFile); err == nil {
		if err := json.Unmarshal(content, &entries); err != nil {
			return fmt.Errorf("parsing post log: %w", err)
		}
	}
	entries = append(entries, entry)

	data, err := marshalRecord(entries)
	if err != nil {
		return err
	}
	return atomicWriteFile(logFile, data)
}

// ContentURL builds the site URL for a piece of content.
func ContentURL(baseURL, contentType, seriesSlug, slug string) string {
	switch {
	case contentType == "series":
		return baseURL + "/series/" + slug
	case seriesSlug != "":
		return baseURL + "/series/" + seriesSlug + "/" + slug
	default:
		return baseURL + "/articles/" + slug
	}
}
