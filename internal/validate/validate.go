// ABOUTME: Schema validation for imported or persisted travel plans
// ABOUTME: Accepts legacy (locations/notes) and current (items) day shapes

package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/harper/itinerary/internal/models"
)

// ErrInvalid matches every validation failure via errors.Is.
var ErrInvalid = errors.New("invalid travel plan")

// Reason identifies why a payload was rejected.
type Reason string

const (
	NotAnObject          Reason = "NotAnObject"
	MissingDays          Reason = "MissingDays"
	NotASequence         Reason = "NotASequence"
	MissingField         Reason = "MissingField"
	WrongFieldType       Reason = "WrongFieldType"
	MissingItemList      Reason = "MissingItemList"
	MixedDayShape        Reason = "MixedDayShape"
	NonNumericCoordinate Reason = "NonNumericCoordinate"
	UnknownItemType      Reason = "UnknownItemType"
	InvalidDate          Reason = "InvalidDate"
	InvalidTimestamp     Reason = "InvalidTimestamp"
)

// Error describes the first problem found in a payload.
type Error struct {
	Reason Reason
	// Path locates the offending value, e.g. "days[2].items[0].lat".
	Path string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid travel plan: %s", e.Reason)
	}
	return fmt.Sprintf("invalid travel plan: %s at %s", e.Reason, e.Path)
}

// Is lets errors.Is(err, ErrInvalid) match any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

func fail(reason Reason, path string) error {
	return &Error{Reason: reason, Path: path}
}

// Header holds the fields shared by both day shapes.
type Header struct {
	ID     string
	Number int
	Date   models.Date
}

// RawDay is a day as read from the outside: *LegacyDay or *CurrentDay.
type RawDay interface {
	DayHeader() Header
}

// LegacyDay is the pre-unification shape with separate arrays.
type LegacyDay struct {
	Header
	Locations []*models.Location
	Notes     []*models.Note
}

// DayHeader implements RawDay.
func (d *LegacyDay) DayHeader() Header { return d.Header }

// CurrentDay is the unified shape with one ordered item list.
type CurrentDay struct {
	Header
	Items []models.Item
}

// DayHeader implements RawDay.
func (d *CurrentDay) DayHeader() Header { return d.Header }

// Document is a sanitized plan that passed validation. Days keep the
// shape they were read in; nothing has been migrated yet.
type Document struct {
	Title     string
	StartDate models.Date
	EndDate   models.Date
	Days      []RawDay
}

// Validate checks a decoded payload (maps, slices, and scalars as produced
// by encoding/json or yaml.v3) and returns the sanitized document. It stops
// at the first failure and never modifies raw.
func Validate(raw any) (*Document, error) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, fail(NotAnObject, "")
	}

	daysRaw, present := obj["days"]
	if !present {
		return nil, fail(MissingDays, "days")
	}
	days, ok := daysRaw.([]any)
	if !ok {
		return nil, fail(NotASequence, "days")
	}

	doc := &Document{
		Title: models.DefaultTitle,
		Days:  make([]RawDay, 0, len(days)),
	}

	title, err := optionalString(obj, "title", "title")
	if err != nil {
		return nil, err
	}
	if title != "" {
		doc.Title = title
	}
	if doc.StartDate, err = optionalDate(obj, "startDate", "startDate"); err != nil {
		return nil, err
	}
	if doc.EndDate, err = optionalDate(obj, "endDate", "endDate"); err != nil {
		return nil, err
	}

	for i, dayRaw := range days {
		day, err := validateDay(dayRaw, fmt.Sprintf("days[%d]", i))
		if err != nil {
			return nil, err
		}
		doc.Days = append(doc.Days, day)
	}

	return doc, nil
}

func validateDay(raw any, path string) (RawDay, error) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, fail(NotAnObject, path)
	}

	for _, field := range []string{"id", "number", "date"} {
		if _, present := obj[field]; !present {
			return nil, fail(MissingField, path+"."+field)
		}
	}

	id, err := identifier(obj["id"], path+".id")
	if err != nil {
		return nil, err
	}
	n, ok := number(obj["number"])
	if !ok {
		return nil, fail(WrongFieldType, path+".number")
	}
	header := Header{ID: id, Number: int(n)}
	dateStr, ok := obj["date"].(string)
	if !ok && obj["date"] != nil {
		return nil, fail(WrongFieldType, path+".date")
	}
	if header.Date, err = models.ParseDate(dateStr); err != nil {
		return nil, fail(InvalidDate, path+".date")
	}

	_, hasLocations := obj["locations"]
	_, hasItems := obj["items"]

	switch {
	case hasItems && hasLocations:
		return nil, fail(MixedDayShape, path)
	case hasItems:
		// A stray legacy notes array next to items is ignored.
		return validateCurrentDay(obj, header, path)
	case hasLocations:
		return validateLegacyDay(obj, header, path)
	default:
		return nil, fail(MissingItemList, path)
	}
}

func validateLegacyDay(obj map[string]any, header Header, path string) (RawDay, error) {
	day := &LegacyDay{Header: header}

	locs, ok := obj["locations"].([]any)
	if !ok {
		return nil, fail(NotASequence, path+".locations")
	}
	day.Locations = make([]*models.Location, 0, len(locs))
	for i, raw := range locs {
		loc, err := validateLocation(raw, fmt.Sprintf("%s.locations[%d]", path, i))
		if err != nil {
			return nil, err
		}
		day.Locations = append(day.Locations, loc)
	}

	if notesRaw, present := obj["notes"]; present {
		notes, ok := notesRaw.([]any)
		if !ok {
			return nil, fail(NotASequence, path+".notes")
		}
		day.Notes = make([]*models.Note, 0, len(notes))
		for i, raw := range notes {
			note, err := validateNote(raw, fmt.Sprintf("%s.notes[%d]", path, i))
			if err != nil {
				return nil, err
			}
			day.Notes = append(day.Notes, note)
		}
	}

	return day, nil
}

func validateCurrentDay(obj map[string]any, header Header, path string) (RawDay, error) {
	items, ok := obj["items"].([]any)
	if !ok {
		return nil, fail(NotASequence, path+".items")
	}

	day := &CurrentDay{Header: header, Items: make([]models.Item, 0, len(items))}
	for i, raw := range items {
		itemPath := fmt.Sprintf("%s.items[%d]", path, i)
		item, ok := asObject(raw)
		if !ok {
			return nil, fail(NotAnObject, itemPath)
		}
		if _, present := item["type"]; !present {
			return nil, fail(MissingField, itemPath+".type")
		}
		if _, present := item["id"]; !present {
			return nil, fail(MissingField, itemPath+".id")
		}

		switch item["type"] {
		case string(models.TypeLocation):
			loc, err := validateLocation(item, itemPath)
			if err != nil {
				return nil, err
			}
			day.Items = append(day.Items, loc)
		case string(models.TypeNote):
			note, err := validateNote(item, itemPath)
			if err != nil {
				return nil, err
			}
			day.Items = append(day.Items, note)
		default:
			return nil, fail(UnknownItemType, itemPath+".type")
		}
	}

	return day, nil
}

func validateLocation(raw any, path string) (*models.Location, error) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, fail(NotAnObject, path)
	}
	for _, field := range []string{"id", "name", "lat", "lng"} {
		if _, present := obj[field]; !present {
			return nil, fail(MissingField, path+"."+field)
		}
	}

	lat, ok := number(obj["lat"])
	if !ok {
		return nil, fail(NonNumericCoordinate, path+".lat")
	}
	lng, ok := number(obj["lng"])
	if !ok {
		return nil, fail(NonNumericCoordinate, path+".lng")
	}

	id, err := identifier(obj["id"], path+".id")
	if err != nil {
		return nil, err
	}
	loc := &models.Location{ID: id, Lat: lat, Lng: lng}

	fields := []struct {
		key string
		dst *string
	}{
		{"name", &loc.Name},
		{"googleAddress", &loc.GoogleAddress},
		{"time", &loc.Time},
		{"notes", &loc.Notes},
	}
	for _, f := range fields {
		if *f.dst, err = optionalString(obj, f.key, path+"."+f.key); err != nil {
			return nil, err
		}
	}

	return loc, nil
}

func validateNote(raw any, path string) (*models.Note, error) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, fail(NotAnObject, path)
	}
	for _, field := range []string{"id", "content", "timestamp"} {
		if _, present := obj[field]; !present {
			return nil, fail(MissingField, path+"."+field)
		}
	}

	id, err := identifier(obj["id"], path+".id")
	if err != nil {
		return nil, err
	}
	content, err := optionalString(obj, "content", path+".content")
	if err != nil {
		return nil, err
	}
	ts, err := timestamp(obj["timestamp"], path+".timestamp")
	if err != nil {
		return nil, err
	}

	return &models.Note{ID: id, Content: content, Timestamp: ts}, nil
}

// asObject accepts both JSON objects and YAML mappings with string keys.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// number reports a numeric value. Strings never count, even numeric-looking ones.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// identifier accepts string IDs and, for hand-edited files, numeric ones.
func identifier(v any, path string) (string, error) {
	switch id := v.(type) {
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	}
	if n, ok := number(v); ok {
		return fmt.Sprintf("%v", n), nil
	}
	return "", fail(WrongFieldType, path)
}

func optionalString(obj map[string]any, key, path string) (string, error) {
	v, present := obj[key]
	if !present || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fail(WrongFieldType, path)
	}
	return s, nil
}

func optionalDate(obj map[string]any, key, path string) (models.Date, error) {
	s, err := optionalString(obj, key, path)
	if err != nil {
		return models.Date{}, err
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fail(InvalidDate, path)
	}
	return d, nil
}

// localTimestamp is ISO-8601 without a UTC offset, read as local time.
const localTimestamp = "2006-01-02T15:04:05.999999999"

// timestamp accepts RFC 3339 strings, zoneless ISO-8601 strings in local
// time, and epoch milliseconds.
func timestamp(v any, path string) (time.Time, error) {
	switch ts := v.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			return t.UTC(), nil
		}
		t, err := time.ParseInLocation(localTimestamp, ts, time.Local)
		if err != nil {
			return time.Time{}, fail(InvalidTimestamp, path)
		}
		return t.UTC(), nil
	case time.Time:
		// yaml.v3 decodes unquoted timestamps itself.
		return ts.UTC(), nil
	}
	if ms, ok := number(v); ok {
		return time.UnixMilli(int64(ms)).UTC(), nil
	}
	return time.Time{}, fail(InvalidTimestamp, path)
}
