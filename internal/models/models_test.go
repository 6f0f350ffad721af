// ABOUTME: Unit tests for data models
// ABOUTME: Tests constructors, validators, dates, and legacy day migration

package models

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewID_HasPrefixAndIsUnique(t *testing.T) {
	a := NewID(DayPrefix)
	b := NewID(DayPrefix)

	if !strings.HasPrefix(a, "day_") {
		t.Errorf("expected day_ prefix, got %q", a)
	}
	if a == b {
		t.Error("expected unique IDs")
	}
}

func TestNewNote(t *testing.T) {
	before := time.Now().Add(-time.Second)
	note := NewNote("bring passport")
	after := time.Now().Add(time.Second)

	if note.Content != "bring passport" {
		t.Errorf("expected content, got %q", note.Content)
	}
	if !strings.HasPrefix(note.ID, "note_") {
		t.Errorf("expected note_ prefix, got %q", note.ID)
	}
	if note.Timestamp.Before(before) || note.Timestamp.After(after) {
		t.Error("timestamp should be close to now")
	}
	if note.Type() != TypeNote {
		t.Errorf("expected note type, got %s", note.Type())
	}
}

func TestNewLocation(t *testing.T) {
	loc := NewLocation("Louvre", 48.8606, 2.3376)

	if loc.Type() != TypeLocation {
		t.Errorf("expected location type, got %s", loc.Type())
	}
	if loc.Lat != 48.8606 || loc.Lng != 2.3376 {
		t.Errorf("unexpected coordinates (%f, %f)", loc.Lat, loc.Lng)
	}
	if !strings.HasPrefix(loc.ItemID(), "loc_") {
		t.Errorf("expected loc_ prefix, got %q", loc.ItemID())
	}
}

func TestLocation_NavigationQuery(t *testing.T) {
	loc := &Location{Name: "Louvre"}
	if loc.NavigationQuery() != "Louvre" {
		t.Errorf("expected name fallback, got %q", loc.NavigationQuery())
	}
	loc.GoogleAddress = "Rue de Rivoli, 75001 Paris"
	if loc.NavigationQuery() != "Rue de Rivoli, 75001 Paris" {
		t.Errorf("expected google address, got %q", loc.NavigationQuery())
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid_paris", 48.8566, 2.3522, false},
		{"valid_origin", 0, 0, false},
		{"valid_north_pole", 90, 0, false},
		{"valid_antimeridian_west", 0, -180, false},
		{"invalid_lat_too_high", 91, 0, true},
		{"invalid_lng_too_low", 0, -181, true},
		{"invalid_lat_nan", math.NaN(), 0, true},
		{"invalid_lng_inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinates(%f, %f) error = %v, wantErr %v", tt.lat, tt.lng, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid_simple", "Louvre", false},
		{"invalid_empty", "", true},
		{"invalid_whitespace_only", "  \t ", true},
		{"valid_max_length", strings.Repeat("a", 255), false},
		{"invalid_too_long", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateContent(t *testing.T) {
	if err := ValidateContent("  \n "); err == nil {
		t.Error("expected error for blank content")
	}
	if err := ValidateContent(" ok "); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func legacyDay() *Day {
	ts := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return &Day{
		ID:     "day_1",
		Number: 1,
		Date:   NewDate(2024, 5, 1),
		LegacyLocations: []*Location{
			{ID: "loc_a", Name: "A", Lat: 1, Lng: 1},
			{ID: "loc_b", Name: "B", Lat: 2, Lng: 2},
		},
		LegacyNotes: []*Note{
			{ID: "note_c", Content: "C", Timestamp: ts},
		},
	}
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ItemID()
	}
	return ids
}

func TestNormalize_LocationsThenNotes(t *testing.T) {
	day := legacyDay()
	if !day.IsLegacy() {
		t.Fatal("expected legacy day")
	}

	Normalize(day)

	want := []string{"loc_a", "loc_b", "note_c"}
	if got := itemIDs(day.Items); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if day.LegacyLocations != nil || day.LegacyNotes != nil {
		t.Error("legacy fields should be cleared")
	}
	if day.IsLegacy() {
		t.Error("day should no longer be legacy")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	day := legacyDay()

	first := itemIDs(Normalize(day).Items)
	second := itemIDs(Normalize(day).Items)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second normalize changed items: %v vs %v", first, second)
	}
	if len(second) != 3 {
		t.Errorf("expected 3 items, got %d", len(second))
	}
}

func TestNormalize_LocationsOnly(t *testing.T) {
	day := &Day{ID: "d", LegacyLocations: []*Location{}}
	Normalize(day)
	if day.Items == nil || len(day.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", day.Items)
	}
}

func TestDay_ItemListMigratesOnAccess(t *testing.T) {
	day := legacyDay()
	if len(day.ItemList()) != 3 {
		t.Fatal("expected 3 items after access")
	}
	if day.IsLegacy() {
		t.Error("access should migrate the day")
	}
}

func TestDay_IndexOfAndLocations(t *testing.T) {
	day := legacyDay()
	if day.IndexOf("loc_b") != 1 {
		t.Errorf("expected index 1, got %d", day.IndexOf("loc_b"))
	}
	if day.IndexOf("missing") != -1 {
		t.Error("expected -1 for missing item")
	}
	if len(day.Locations()) != 2 {
		t.Errorf("expected 2 locations, got %d", len(day.Locations()))
	}
}

func TestDay_CloneIsDeep(t *testing.T) {
	day := legacyDay()
	Normalize(day)
	clone := day.Clone()

	clone.Items[0].(*Location).Name = "changed"
	if day.Items[0].(*Location).Name != "A" {
		t.Error("clone shares item memory with original")
	}
}

func TestTravelPlan_RenumberAndRedate(t *testing.T) {
	plan := NewPlan()
	for i := 0; i < 3; i++ {
		plan.Days = append(plan.Days, NewDay(9, Date{}))
	}

	plan.Renumber()
	plan.RedateFrom(NewDate(2024, 12, 30))

	for i, d := range plan.Days {
		if d.Number != i+1 {
			t.Errorf("day %d has number %d", i, d.Number)
		}
	}
	if plan.Days[2].Date.String() != "2025-01-01" {
		t.Errorf("expected date rollover to 2025-01-01, got %s", plan.Days[2].Date)
	}
}

func TestTravelPlan_RedateFromZeroIsNoop(t *testing.T) {
	plan := NewPlan()
	plan.Days = append(plan.Days, NewDay(1, NewDate(2024, 1, 1)))
	plan.RedateFrom(Date{})
	if plan.Days[0].Date.String() != "2024-01-01" {
		t.Errorf("zero start should keep dates, got %s", plan.Days[0].Date)
	}
}

func TestTravelPlan_Clone(t *testing.T) {
	plan := NewPlan()
	plan.StartDate = NewDate(2024, 1, 1)
	plan.Days = append(plan.Days, NewDay(1, plan.StartDate))

	clone := plan.Clone()
	if !reflect.DeepEqual(plan, clone) {
		t.Error("clone should be structurally equal")
	}
	clone.Days[0].Number = 42
	if plan.Days[0].Number == 42 {
		t.Error("clone shares day memory")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-03-15", "2024-03-15", false},
		{"", "", false},
		{"2024-03-15T22:00:00Z", "2024-03-15", false},
		{"15/03/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.String())
			}
		})
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	d := NewDate(2024, 2, 29)
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Date
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("expected %s, got %s", d, back)
	}
}

func TestDayColorCycles(t *testing.T) {
	if DayColor(0) != "#667eea" {
		t.Errorf("DayColor(0) = %s", DayColor(0))
	}
	if DayColor(7) != "#ffecd2" {
		t.Errorf("DayColor(7) = %s", DayColor(7))
	}
	if DayColor(8) != DayColor(0) || DayColor(13) != DayColor(5) {
		t.Error("palette should repeat every 8 days")
	}
}
