// ABOUTME: Serialization of travel plans to and from JSON
// ABOUTME: Decoding validates first, then migrates legacy days into the canonical model

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/itinerary/internal/models"
	"github.com/harper/itinerary/internal/validate"
)

// ExportFilename is the conventional name of an exported plan.
const ExportFilename = "travel-plan.json"

// ErrParse is returned when bytes cannot be decoded at all.
var ErrParse = errors.New("parse travel plan")

// planDoc is the current on-disk shape. Field order fixes key order in output.
type planDoc struct {
	Title     string   `json:"title" yaml:"title"`
	StartDate string   `json:"startDate" yaml:"startDate"`
	EndDate   string   `json:"endDate" yaml:"endDate"`
	Days      []dayDoc `json:"days" yaml:"days"`
}

type dayDoc struct {
	ID     string    `json:"id" yaml:"id"`
	Number int       `json:"number" yaml:"number"`
	Date   string    `json:"date" yaml:"date"`
	Items  []itemDoc `json:"items" yaml:"items"`
}

// itemDoc flattens both item variants; Type says which fields apply.
type itemDoc struct {
	Type          models.ItemType `json:"type" yaml:"type"`
	ID            string          `json:"id" yaml:"id"`
	Name          *string         `json:"name,omitempty" yaml:"name,omitempty"`
	GoogleAddress *string         `json:"googleAddress,omitempty" yaml:"googleAddress,omitempty"`
	Time          *string         `json:"time,omitempty" yaml:"time,omitempty"`
	Notes         *string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	Lat           *float64        `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lng           *float64        `json:"lng,omitempty" yaml:"lng,omitempty"`
	Content       *string         `json:"content,omitempty" yaml:"content,omitempty"`
	Timestamp     *string         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

func toDoc(plan *models.TravelPlan) planDoc {
	doc := planDoc{
		Title:     plan.Title,
		StartDate: plan.StartDate.String(),
		EndDate:   plan.EndDate.String(),
		Days:      make([]dayDoc, len(plan.Days)),
	}

	for i, day := range plan.Days {
		items := day.ItemList()
		dd := dayDoc{
			ID:     day.ID,
			Number: day.Number,
			Date:   day.Date.String(),
			Items:  make([]itemDoc, len(items)),
		}
		for j, item := range items {
			dd.Items[j] = toItemDoc(item)
		}
		doc.Days[i] = dd
	}

	return doc
}

func toItemDoc(item models.Item) itemDoc {
	switch it := item.(type) {
	case *models.Location:
		lat, lng := it.Lat, it.Lng
		doc := itemDoc{
			Type: models.TypeLocation,
			ID:   it.ID,
			Name: &it.Name,
			Lat:  &lat,
			Lng:  &lng,
		}
		if it.GoogleAddress != "" {
			doc.GoogleAddress = &it.GoogleAddress
		}
		if it.Time != "" {
			doc.Time = &it.Time
		}
		if it.Notes != "" {
			doc.Notes = &it.Notes
		}
		return doc
	case *models.Note:
		ts := it.Timestamp.UTC().Format(time.RFC3339Nano)
		return itemDoc{
			Type:      models.TypeNote,
			ID:        it.ID,
			Content:   &it.Content,
			Timestamp: &ts,
		}
	default:
		panic(fmt.Sprintf("codec: unknown item type %T", item))
	}
}

// Encode writes the plan in the current shape as indented JSON.
// Day and item order is preserved exactly.
func Encode(plan *models.TravelPlan) ([]byte, error) {
	data, err := json.MarshalIndent(toDoc(plan), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeRaw parses JSON into generic values without validating them.
// Numbers stay json.Number so quoted and unquoted values remain distinct.
func DecodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after plan", ErrParse)
	}
	return raw, nil
}

// Decode parses, validates, and normalizes a JSON plan in either the
// legacy or the current shape.
func Decode(data []byte) (*models.TravelPlan, error) {
	raw, err := DecodeRaw(data)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw)
}

// FromRaw validates a generic payload and builds the canonical plan.
func FromRaw(raw any) (*models.TravelPlan, error) {
	doc, err := validate.Validate(raw)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc), nil
}

// FromDocument converts a validated document into the canonical model,
// migrating legacy days on the way. No caller past this point sees
// which shape was read.
func FromDocument(doc *validate.Document) *models.TravelPlan {
	plan := &models.TravelPlan{
		Title:     doc.Title,
		StartDate: doc.StartDate,
		EndDate:   doc.EndDate,
		Days:      make([]*models.Day, 0, len(doc.Days)),
	}

	for _, raw := range doc.Days {
		h := raw.DayHeader()
		day := &models.Day{ID: h.ID, Number: h.Number, Date: h.Date}
		switch d := raw.(type) {
		case *validate.LegacyDay:
			day.LegacyLocations = d.Locations
			day.LegacyNotes = d.Notes
			if day.LegacyLocations == nil {
				day.LegacyLocations = []*models.Location{}
			}
		case *validate.CurrentDay:
			day.Items = d.Items
		}
		plan.Days = append(plan.Days, models.Normalize(day))
	}

	return plan
}
