package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdx-cms/pkg/models"
)

func calendarFixture() []InventoryItem {
	return []InventoryItem{
		{Title: "Go Basics", Slug: "go-basics", Type: "series", Status: models.StatusScheduled, Date: "2024-01-01", Category: "programming"},
		{Title: "Syntax, part 1", Slug: "syntax", Type: "article", SeriesSlug: "go-basics", Status: models.StatusScheduled, Date: "2024-01-08"},
		{Title: "Undated Draft", Slug: "someday", Type: "article", Status: models.StatusDraft},
	}
}

func TestCalendarCSV(t *testing.T) {
	out := string(CalendarCSV(calendarFixture(), "https://example.com"))
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 3) // header + two dated items
	assert.Equal(t, "Title,Type,Status,Date,Category,URL", lines[0])
	assert.Contains(t, lines[1], `"Go Basics","series","scheduled","2024-01-01","programming","https://example.com/series/go-basics"`)
	// commas in titles stay inside the quoted cell
	assert.Contains(t, lines[2], `"Syntax, part 1"`)
	assert.Contains(t, lines[2], "https://example.com/series/go-basics/syntax")
	assert.NotContains(t, out, "Undated Draft")
}

func TestCalendarICS(t *testing.T) {
	out := string(CalendarICS(calendarFixture(), "https://example.com"))

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Go Basics (series)")
	assert.Contains(t, out, "DTSTART:20240101T000000Z")
	assert.Contains(t, out, "DTEND:20240102T000000Z")
	assert.Contains(t, out, "URL:https://example.com/series/go-basics/syntax")
	assert.Contains(t, out, "CATEGORIES:programming")
	// items without a category fall back
	assert.Contains(t, out, "CATEGORIES:Uncategorized")
	assert.NotContains(t, out, "Undated Draft")
}
