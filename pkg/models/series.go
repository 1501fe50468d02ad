package models

// Release schedule frequencies
const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

// ReleaseSchedule is a publishing cadence for a series. Article publish
// dates are computed from the start date by article order.
type ReleaseSchedule struct {
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"` // ISO YYYY-MM-DD
}

// Complete reports whether the schedule carries enough information to
// compute publish dates.
func (s *ReleaseSchedule) Complete() bool {
	return s != nil && s.Frequency != "" && s.StartDate != ""
}

// ArticleSummary is the per-article entry cached inside a series record,
// kept in sync with the authoritative article file on every write.
type ArticleSummary struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug"`
	Order       int    `json:"order,omitempty"`
	Status      Status `json:"status,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
}

// Series is the on-disk record stored at series/<slug>/_series.json.
type Series struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Slug            string            `json:"slug"`
	Category        string            `json:"category,omitempty"`
	CoverImage      string            `json:"coverImage,omitempty"`
	Status          Status            `json:"status,omitempty"`
	PublishDate     string            `json:"publishDate,omitempty"`
	ReleaseSchedule *ReleaseSchedule  `json:"releaseSchedule,omitempty"`
	SocialMedia     *SocialMediaFlags `json:"socialMedia,omitempty"`
	Articles        []ArticleSummary  `json:"articles"`
}

// ResolvedSeries is a series with its article files loaded, filtered and
// sorted, replacing the cached summary list.
type ResolvedSeries struct {
	Series
	Articles []Article `json:"articles"`
}

// SeriesPatch is a partial-field update for a series record. The slug and
// the cached article list are never patched directly.
type SeriesPatch struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Category        *string           `json:"category,omitempty"`
	CoverImage      *string           `json:"coverImage,omitempty"`
	Status          *Status           `json:"status,omitempty"`
	PublishDate     *string           `json:"publishDate,omitempty"`
	ReleaseSchedule *ReleaseSchedule  `json:"releaseSchedule,omitempty"`
	SocialMedia     *SocialMediaFlags `json:"socialMedia,omitempty"`
}
