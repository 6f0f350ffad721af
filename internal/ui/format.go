// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for plans, days, locations, and notes

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/itinerary/internal/models"
)

// dayAttrs approximates models.DayPalette with terminal colors, in the
// same order.
var dayAttrs = [...]color.Attribute{
	color.FgBlue, color.FgMagenta, color.FgCyan, color.FgGreen,
	color.FgRed, color.FgHiRed, color.FgHiCyan, color.FgHiYellow,
}

var faint = color.New(color.Faint)

// ShortID trims an item ID to its prefix and first eight characters, which
// is enough to address it from the CLI.
func ShortID(id string) string {
	prefix, rest, ok := strings.Cut(id, "_")
	if !ok || len(rest) <= 8 {
		return id
	}
	return prefix + "_" + rest[:8]
}

// FormatPlanHeader formats the plan title, date range, and totals.
func FormatPlanHeader(p *models.TravelPlan) string {
	var sb strings.Builder
	sb.WriteString(color.New(color.Bold).Sprint(p.Title))

	if !p.StartDate.IsZero() {
		end := "?"
		if !p.EndDate.IsZero() {
			end = p.EndDate.String()
		}
		fmt.Fprintf(&sb, "  %s", faint.Sprintf("%s to %s", p.StartDate, end))
	}

	fmt.Fprintf(&sb, "\n%s", faint.Sprintf("%s, %s", plural(len(p.Days), "day"), plural(p.ItemCount(), "item")))
	return sb.String()
}

// FormatDayHeader formats a day heading in its palette color. position is
// the 0-based index of the day in the plan.
func FormatDayHeader(day *models.Day, position int, selected bool) string {
	c := color.New(color.Bold, dayAttrs[position%len(dayAttrs)])
	heading := c.Sprintf("Day %d", day.Number)
	if !day.Date.IsZero() {
		heading += " " + day.Date.Time().Format("Mon Jan 2, 2006")
	}
	if selected {
		heading += " " + color.YellowString("(selected)")
	}
	return fmt.Sprintf("%s %s", heading, faint.Sprint(ShortID(day.ID)))
}

// FormatLocation formats a location line.
func FormatLocation(loc *models.Location) string {
	if loc == nil {
		return faint.Sprint("(invalid location)")
	}

	var sb strings.Builder
	sb.WriteString(faint.Sprintf("[%s] ", ShortID(loc.ID)))
	if loc.Time != "" {
		sb.WriteString(color.YellowString(loc.Time) + " ")
	}
	sb.WriteString(color.GreenString(loc.Name))
	sb.WriteString(" " + faint.Sprintf("(%.4f, %.4f)", loc.Lat, loc.Lng))
	if loc.GoogleAddress != "" {
		sb.WriteString(" - " + loc.GoogleAddress)
	}
	if loc.Notes != "" {
		sb.WriteString("\n      " + faint.Sprint(loc.Notes))
	}
	return sb.String()
}

// FormatNote formats a note line with its age.
func FormatNote(note *models.Note) string {
	if note == nil {
		return faint.Sprint("(invalid note)")
	}
	return fmt.Sprintf("%s%s %s",
		faint.Sprintf("[%s] ", ShortID(note.ID)),
		color.CyanString(note.Content),
		faint.Sprintf("(%s)", FormatRelativeTime(note.Timestamp)))
}

// FormatItem dispatches to FormatLocation or FormatNote.
func FormatItem(item models.Item) string {
	switch it := item.(type) {
	case *models.Location:
		return FormatLocation(it)
	case *models.Note:
		return FormatNote(it)
	default:
		return faint.Sprint("(invalid item)")
	}
}

// FormatPlan renders the whole plan. When onlyDayID is set, other days are
// left out. selectedDayID marks the selected day.
func FormatPlan(p *models.TravelPlan, selectedDayID, onlyDayID string) string {
	var sb strings.Builder
	sb.WriteString(FormatPlanHeader(p))
	sb.WriteString("\n")

	if p.IsEmpty() {
		sb.WriteString("\n" + faint.Sprint("No days yet. Set a start date and add a day.") + "\n")
		return sb.String()
	}

	for i, day := range p.Days {
		if onlyDayID != "" && day.ID != onlyDayID {
			continue
		}
		sb.WriteString("\n" + FormatDayHeader(day, i, day.ID == selectedDayID) + "\n")
		items := day.ItemList()
		if len(items) == 0 {
			sb.WriteString("  " + faint.Sprint("(nothing planned)") + "\n")
			continue
		}
		for n, item := range items {
			fmt.Fprintf(&sb, "  %d. %s\n", n+1, FormatItem(item))
		}
	}
	return sb.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
