package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CalendarCSV renders the content inventory as a CSV planning export.
// Items without a date are skipped.
func CalendarCSV(items []InventoryItem, baseURL string) []byte {
	var b strings.Builder
	b.WriteString("Title,Type,Status,Date,Category,URL\n")
	for _, item := range items {
		if item.Date == "" {
			continue
		}
		url := ContentURL(baseURL, item.Type, item.SeriesSlug, item.Slug)
		row := []string{item.Title, item.Type, string(item.Status), item.Date, item.Category, url}
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// CalendarICS renders the content inventory as an iCalendar file with one
// all-day event per dated item.
func CalendarICS(items []InventoryItem, baseURL string) []byte {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//mdx-cms//Content Calendar//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	for _, item := range items {
		if item.Date == "" {
			continue
		}
		start, err := time.Parse(dateLayout, item.Date)
		if err != nil {
			continue
		}
		end := start.AddDate(0, 0, 1)
		url := ContentURL(baseURL, item.Type, item.SeriesSlug, item.Slug)
		category := item.Category
		if category == "" {
			category = "Uncategorized"
		}

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s@mdx-cms\r\n", uuid.NewString())
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", start.Format("20060102T150405Z"))
		fmt.Fprintf(&b, "DTSTART:%s\r\n", start.Format("20060102T150405Z"))
		fmt.Fprintf(&b, "DTEND:%s\r\n", end.Format("20060102T150405Z"))
		fmt.Fprintf(&b, "SUMMARY:%s (%s)\r\n", item.Title, item.Type)
		fmt.Fprintf(&b, "DESCRIPTION:Status: %s\\nCategory: %s\\nURL: %s\r\n", item.Status, category, url)
		fmt.Fprintf(&b, "URL:%s\r\n", url)
		fmt.Fprintf(&b, "CATEGORIES:%s\r\n", category)
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String())
}
