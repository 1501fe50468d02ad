package models

// Article statuses
const (
	StatusDraft     Status = "draft"
	StatusReady     Status = "ready"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusFeatured  Status = "featured"
)

// Status is the lifecycle state of an article or series.
type Status string

// SocialMediaFlags selects the platforms a piece of content is
// cross-posted to on its publish day.
type SocialMediaFlags struct {
	LinkedIn bool `json:"linkedin,omitempty"`
	Twitter  bool `json:"twitter,omitempty"`
	Facebook bool `json:"facebook,omitempty"`
	DevTo    bool `json:"devto,omitempty"`
}

// Any reports whether at least one platform is selected.
func (f *SocialMediaFlags) Any() bool {
	if f == nil {
		return false
	}
	return f.LinkedIn || f.Twitter || f.Facebook || f.DevTo
}

// Enabled reports whether the named platform is selected.
func (f *SocialMediaFlags) Enabled(platform string) bool {
	if f == nil {
		return false
	}
	switch platform {
	case "linkedin":
		return f.LinkedIn
	case "twitter":
		return f.Twitter
	case "facebook":
		return f.Facebook
	case "devto":
		return f.DevTo
	}
	return false
}

// Article is the on-disk metadata record for a unit of content. The slug
// is derived from the filename at read time; the MDX body lives in a
// sibling file and is loaded separately.
type Article struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Author       string            `json:"author"`
	Date         string            `json:"date"` // ISO YYYY-MM-DD
	Slug         string            `json:"slug,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Category     string            `json:"category,omitempty"`
	Order        int               `json:"order,omitempty"`
	SeriesSlug   string            `json:"seriesSlug,omitempty"`
	CoverImage   string            `json:"coverImage,omitempty"`
	Status       Status            `json:"status,omitempty"`
	PublishDate  string            `json:"publishDate,omitempty"`
	SocialMedia  *SocialMediaFlags `json:"socialMedia,omitempty"`
	IsStandalone bool              `json:"isStandalone,omitempty"`
}

// ArticleNavigation is an article together with its neighbors in the
// listing it was resolved from.
type ArticleNavigation struct {
	Article     Article  `json:"article"`
	PrevArticle *Article `json:"prevArticle,omitempty"`
	NextArticle *Article `json:"nextArticle,omitempty"`
}

// ArticlePatch is a partial-field update. Nil fields are left untouched
// on the stored record.
type ArticlePatch struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Author      *string           `json:"author,omitempty"`
	Date        *string           `json:"date,omitempty"`
	Tags        *[]string         `json:"tags,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Order       *int              `json:"order,omitempty"`
	CoverImage  *string           `json:"coverImage,omitempty"`
	Status      *Status           `json:"status,omitempty"`
	PublishDate *string           `json:"publishDate,omitempty"`
	SocialMedia *SocialMediaFlags `json:"socialMedia,omitempty"`
}
