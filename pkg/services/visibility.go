package services

import (
	"time"

	"mdx-cms/pkg/models"
)

const dateLayout = "2006-01-02"

// IsContentVisible decides whether content appears in listings. Outside
// production everything is visible so drafts can be previewed locally.
// Publish dates are date-only strings compared against today in server
// local time; lexicographic comparison is exact for the YYYY-MM-DD layout.
func IsContentVisible(production bool, status models.Status, publishDate string) bool {
	if !production {
		return true
	}
	if status == "" {
		return false
	}
	if status == models.StatusPublished || status == models.StatusFeatured {
		return true
	}
	if status == models.StatusScheduled && publishDate != "" {
		today := time.Now().Format(dateLayout)
		return today >= publishDate
	}
	// draft and ready stay hidden in production
	return false
}
