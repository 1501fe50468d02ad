package services

import (
	"sort"
	"time"

	"mdx-cms/pkg/models"
)

// CalculatePublishDates assigns a publish date to every article in a
// series from its release schedule: the i-th article in order ascending
// publishes startDate + i intervals. Every article in the result is
// marked scheduled, overwriting any prior status. Without a complete
// schedule the input is returned unchanged.
func CalculatePublishDates(series models.Series, articles []models.Article) []models.Article {
	if !series.ReleaseSchedule.Complete() {
		return articles
	}

	start, err := time.Parse(dateLayout, series.ReleaseSchedule.StartDate)
	if err != nil {
		return articles
	}

	sorted := make([]models.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	for i := range sorted {
		var publish time.Time
		switch series.ReleaseSchedule.Frequency {
		case models.FrequencyWeekly:
			publish = start.AddDate(0, 0, i*7)
		case models.FrequencyBiweekly:
			publish = start.AddDate(0, 0, i*14)
		case models.FrequencyMonthly:
			publish = start.AddDate(0, i, 0)
		default:
			publish = start
		}
		sorted[i].Status = models.StatusScheduled
		sorted[i].PublishDate = publish.Format(dateLayout)
	}
	return sorted
}
