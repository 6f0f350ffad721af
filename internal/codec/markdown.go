// ABOUTME: Markdown itinerary export
// ABOUTME: Renders days in order with their locations and notes

package codec

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/harper/itinerary/internal/models"
)

// NavigationURL returns the Google Maps search link for a location.
func NavigationURL(loc *models.Location) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(loc.NavigationQuery())
}

// EncodeMarkdown renders the plan as a readable itinerary. When dayID is
// non-empty only that day is included.
func EncodeMarkdown(plan *models.TravelPlan, dayID string, now time.Time) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", plan.Title)
	if !plan.StartDate.IsZero() {
		end := plan.EndDate.String()
		if end == "" {
			end = "?"
		}
		fmt.Fprintf(&sb, "%s to %s\n\n", plan.StartDate, end)
	}
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.UTC().Format(time.RFC3339))

	days := plan.Days
	if dayID != "" {
		days = nil
		if d := plan.FindDay(dayID); d != nil {
			days = []*models.Day{d}
		}
	}

	if len(days) == 0 {
		sb.WriteString("No days planned.\n")
		return []byte(sb.String())
	}

	for _, day := range days {
		fmt.Fprintf(&sb, "## Day %d", day.Number)
		if !day.Date.IsZero() {
			fmt.Fprintf(&sb, " (%s)", day.Date.Time().Format("Mon Jan 2, 2006"))
		}
		sb.WriteString("\n\n")

		items := day.ItemList()
		if len(items) == 0 {
			sb.WriteString("Nothing planned.\n\n")
			continue
		}

		for _, item := range items {
			switch it := item.(type) {
			case *models.Location:
				sb.WriteString("- ")
				if it.Time != "" {
					fmt.Fprintf(&sb, "**%s** ", it.Time)
				}
				fmt.Fprintf(&sb, "[%s](%s) (%.4f, %.4f)\n", it.Name, NavigationURL(it), it.Lat, it.Lng)
				if it.GoogleAddress != "" {
					fmt.Fprintf(&sb, "  - %s\n", it.GoogleAddress)
				}
				if it.Notes != "" {
					fmt.Fprintf(&sb, "  - %s\n", it.Notes)
				}
			case *models.Note:
				fmt.Fprintf(&sb, "- _Note:_ %s\n", it.Content)
			}
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String())
}
