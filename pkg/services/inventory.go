package services

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"mdx-cms/pkg/models"
)

// InventoryItem is one row in the admin dashboard's content listing.
type InventoryItem struct {
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Type       string        `json:"type"` // "article" or "series"
	SeriesSlug string        `json:"seriesSlug,omitempty"`
	Status     models.Status `json:"status,omitempty"`
	Date       string        `json:"date,omitempty"`
	Category   string        `json:"category,omitempty"`
	Path       string        `json:"path"`
}

var (
	inventoryCache []InventoryItem
	cacheMutex     sync.Mutex
	cacheDir       string
	cacheLoaded    bool
)

// GetInventoryCache walks the content tree and returns one item per
// record, unfiltered by visibility. The result is cached per content
// directory until the next mutator write; resolver reads never use this
// cache.
func GetInventoryCache(contentDir string) ([]InventoryItem, error) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	if cacheLoaded && cacheDir == contentDir {
		return inventoryCache, nil
	}

	var items []InventoryItem
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		relPath, _ := filepath.Rel(contentDir, path)

		if d.Name() == "_series.json" {
			var series models.Series
			if err := readJSONFile(path, &series); err != nil {
				return nil // skip malformed records in the listing
			}
			slug := series.Slug
			if slug == "" {
				slug = filepath.Base(filepath.Dir(path))
			}
			items = append(items, InventoryItem{
				Title:    series.Name,
				Slug:     slug,
				Type:     "series",
				Status:   series.Status,
				Date:     itemDate(series.PublishDate, ""),
				Category: series.Category,
				Path:     filepath.ToSlash(relPath),
			})
			return nil
		}
		if strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		var article models.Article
		if err := readJSONFile(path, &article); err != nil {
			return nil
		}
		item := InventoryItem{
			Title:    article.Title,
			Slug:     slugFromFilename(d.Name()),
			Type:     "article",
			Status:   article.Status,
			Date:     itemDate(article.PublishDate, article.Date),
			Category: article.Category,
			Path:     filepath.ToSlash(relPath),
		}
		if parent := filepath.Dir(relPath); strings.HasPrefix(filepath.ToSlash(parent), "series/") {
			item.SeriesSlug = filepath.Base(parent)
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	inventoryCache = items
	cacheDir = contentDir
	cacheLoaded = true
	return inventoryCache, nil
}

func itemDate(publishDate, date string) string {
	if publishDate != "" {
		return publishDate
	}
	return date
}

// InvalidateInventory drops the cached listing. Called by every mutator
// write.
func InvalidateInventory() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	cacheLoaded = false
	cacheDir = ""
	inventoryCache = nil
}
