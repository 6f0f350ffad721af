// ABOUTME: Core data models for travel plans, days, and day items
// ABOUTME: Provides constructors, validators, and the legacy day migration

package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the title given to a fresh plan.
const DefaultTitle = "My Travel Plan"

// ID prefixes for generated identifiers.
const (
	DayPrefix      = "day"
	LocationPrefix = "loc"
	NotePrefix     = "note"
)

// ItemType discriminates the variants of Item.
type ItemType string

const (
	TypeLocation ItemType = "location"
	TypeNote     ItemType = "note"
)

// NewID returns a fresh identifier of the form "<prefix>_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// ValidateCoordinates checks if latitude and longitude are within valid ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateName checks that a location name is non-blank and within length limits.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}
	if len(name) > 255 {
		return fmt.Errorf("name too long (max 255 characters)")
	}
	return nil
}

// ValidateContent checks that note content is non-blank.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("note content cannot be empty or whitespace")
	}
	return nil
}

// Item is an entry within a day: either a *Location or a *Note.
type Item interface {
	ItemID() string
	Type() ItemType
	// Clone returns a deep copy of the item.
	Clone() Item
	sealed()
}

// Location is a place to visit.
type Location struct {
	ID            string
	Name          string
	GoogleAddress string
	Time          string
	Notes         string
	Lat           float64
	Lng           float64
}

// ItemID implements Item.
func (l *Location) ItemID() string { return l.ID }

// Type implements Item.
func (l *Location) Type() ItemType { return TypeLocation }

// Clone implements Item.
func (l *Location) Clone() Item {
	c := *l
	return &c
}

func (l *Location) sealed() {}

// NavigationQuery is the text used to look the location up on a map:
// the Google address when present, otherwise the name.
func (l *Location) NavigationQuery() string {
	if l.GoogleAddress != "" {
		return l.GoogleAddress
	}
	return l.Name
}

// Note is a free-form annotation. Its timestamp is fixed at creation.
type Note struct {
	ID        string
	Content   string
	Timestamp time.Time
}

// ItemID implements Item.
func (n *Note) ItemID() string { return n.ID }

// Type implements Item.
func (n *Note) Type() ItemType { return TypeNote }

// Clone implements Item.
func (n *Note) Clone() Item {
	c := *n
	return &c
}

func (n *Note) sealed() {}

// NewLocation creates a location with a generated ID.
func NewLocation(name string, lat, lng float64) *Location {
	return &Location{
		ID:   NewID(LocationPrefix),
		Name: name,
		Lat:  lat,
		Lng:  lng,
	}
}

// NewNote creates a note with a generated ID and the current timestamp.
// The timestamp is kept at millisecond precision to match the ISO-8601
// strings the plan is exchanged in.
func NewNote(content string) *Note {
	return &Note{
		ID:        NewID(NotePrefix),
		Content:   content,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Day is one calendar day of a plan.
type Day struct {
	ID     string
	Number int
	Date   Date
	Items  []Item

	// LegacyLocations and LegacyNotes hold the pre-unification shape
	// until Normalize folds them into Items.
	LegacyLocations []*Location
	LegacyNotes     []*Note
}

// NewDay creates a day with a generated ID and an empty item list.
func NewDay(number int, date Date) *Day {
	return &Day{
		ID:     NewID(DayPrefix),
		Number: number,
		Date:   date,
		Items:  []Item{},
	}
}

// IsLegacy reports whether the day still carries the split location/note arrays.
func (d *Day) IsLegacy() bool {
	return d.Items == nil && (d.LegacyLocations != nil || d.LegacyNotes != nil)
}

// Normalize migrates a legacy day in place: all locations followed by all
// notes, each in original order, become Items and the legacy fields are
// cleared. Calling it again is a no-op. The day is returned for chaining.
func Normalize(d *Day) *Day {
	if d.Items != nil {
		d.LegacyLocations = nil
		d.LegacyNotes = nil
		return d
	}
	items := make([]Item, 0, len(d.LegacyLocations)+len(d.LegacyNotes))
	for _, loc := range d.LegacyLocations {
		items = append(items, loc)
	}
	for _, note := range d.LegacyNotes {
		items = append(items, note)
	}
	d.Items = items
	d.LegacyLocations = nil
	d.LegacyNotes = nil
	return d
}

// ItemList returns the day's ordered items, migrating a legacy day first.
func (d *Day) ItemList() []Item {
	return Normalize(d).Items
}

// IndexOf returns the position of the item with the given ID, or -1.
func (d *Day) IndexOf(itemID string) int {
	for i, item := range d.ItemList() {
		if item.ItemID() == itemID {
			return i
		}
	}
	return -1
}

// Locations returns the location items of the day in order.
func (d *Day) Locations() []*Location {
	var locs []*Location
	for _, item := range d.ItemList() {
		if loc, ok := item.(*Location); ok {
			locs = append(locs, loc)
		}
	}
	return locs
}

// Clone returns a deep copy of the day.
func (d *Day) Clone() *Day {
	c := &Day{
		ID:     d.ID,
		Number: d.Number,
		Date:   d.Date,
	}
	if d.Items != nil {
		c.Items = make([]Item, len(d.Items))
		for i, item := range d.Items {
			c.Items[i] = item.Clone()
		}
	}
	if d.LegacyLocations != nil {
		c.LegacyLocations = make([]*Location, len(d.LegacyLocations))
		for i, loc := range d.LegacyLocations {
			c.LegacyLocations[i] = loc.Clone().(*Location)
		}
	}
	if d.LegacyNotes != nil {
		c.LegacyNotes = make([]*Note, len(d.LegacyNotes))
		for i, note := range d.LegacyNotes {
			c.LegacyNotes[i] = note.Clone().(*Note)
		}
	}
	return c
}

// TravelPlan is the root aggregate of an itinerary.
type TravelPlan struct {
	Title     string
	StartDate Date
	EndDate   Date
	Days      []*Day
}

// NewPlan returns an empty plan with the default title.
func NewPlan() *TravelPlan {
	return &TravelPlan{
		Title: DefaultTitle,
		Days:  []*Day{},
	}
}

// IsEmpty reports whether the plan has no days.
func (p *TravelPlan) IsEmpty() bool {
	return len(p.Days) == 0
}

// DayIndex returns the position of the day with the given ID, or -1.
func (p *TravelPlan) DayIndex(dayID string) int {
	for i, d := range p.Days {
		if d.ID == dayID {
			return i
		}
	}
	return -1
}

// FindDay returns the day with the given ID, or nil.
func (p *TravelPlan) FindDay(dayID string) *Day {
	if i := p.DayIndex(dayID); i >= 0 {
		return p.Days[i]
	}
	return nil
}

// Renumber sets every day's Number to its 1-based position.
func (p *TravelPlan) Renumber() {
	for i, d := range p.Days {
		d.Number = i + 1
	}
}

// RedateFrom sets every day's Date to start plus its position in days.
// A zero start leaves dates untouched.
func (p *TravelPlan) RedateFrom(start Date) {
	if start.IsZero() {
		return
	}
	for i, d := range p.Days {
		d.Date = start.AddDays(i)
	}
}

// NormalizeAll migrates every legacy day in the plan.
func (p *TravelPlan) NormalizeAll() {
	for _, d := range p.Days {
		Normalize(d)
	}
}

// Clone returns a deep copy of the plan.
func (p *TravelPlan) Clone() *TravelPlan {
	c := &TravelPlan{
		Title:     p.Title,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Days:      make([]*Day, len(p.Days)),
	}
	for i, d := range p.Days {
		c.Days[i] = d.Clone()
	}
	return c
}

// ItemCount returns the total number of items across all days.
func (p *TravelPlan) ItemCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.ItemList())
	}
	return n
}

// DayPalette is the fixed set of colors days cycle through.
var DayPalette = [...]string{
	"#667eea", "#f093fb", "#4facfe", "#43e97b",
	"#fa709a", "#ff9a9e", "#a8edea", "#ffecd2",
}

// DayColor returns the palette color for the day at the 0-based position.
func DayColor(position int) string {
	if position < 0 {
		position = -position
	}
	return DayPalette[position%len(DayPalette)]
}
