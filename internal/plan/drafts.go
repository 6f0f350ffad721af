// ABOUTME: Input shapes for creating and patching day items
// ABOUTME: Drafts build new items; patches change fields of existing ones

package plan

import (
	"fmt"
	"strings"

	"github.com/harper/itinerary/internal/models"
)

// Draft is the input for AddItem: a LocationDraft or a NoteDraft.
type Draft interface {
	build() (models.Item, error)
}

// LocationDraft describes a new location. Lat and Lng must both be
// resolved before the draft is accepted.
type LocationDraft struct {
	Name          string
	GoogleAddress string
	Time          string
	Notes         string
	Lat           *float64
	Lng           *float64
}

func (d LocationDraft) build() (models.Item, error) {
	name := strings.TrimSpace(d.Name)
	if err := models.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrIncompleteLocation, err)
	}
	if d.Lat == nil || d.Lng == nil {
		return nil, ErrIncompleteLocation
	}
	if err := models.ValidateCoordinates(*d.Lat, *d.Lng); err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrInvalidCoordinates, err)
	}

	loc := models.NewLocation(name, *d.Lat, *d.Lng)
	loc.GoogleAddress = strings.TrimSpace(d.GoogleAddress)
	loc.Time = strings.TrimSpace(d.Time)
	loc.Notes = strings.TrimSpace(d.Notes)
	return loc, nil
}

// NoteDraft describes a new note.
type NoteDraft struct {
	Content string
}

func (d NoteDraft) build() (models.Item, error) {
	if err := models.ValidateContent(d.Content); err != nil {
		return nil, ErrEmptyNote
	}
	return models.NewNote(strings.TrimSpace(d.Content)), nil
}

// Patch is the input for UpdateItem: a LocationPatch or a NotePatch.
// Nil fields are left unchanged.
type Patch interface {
	apply(item models.Item) (models.Item, error)
}

// LocationPatch changes fields of a location. When Name changes, Lat and
// Lng must be supplied too.
type LocationPatch struct {
	Name          *string
	GoogleAddress *string
	Time          *string
	Notes         *string
	Lat           *float64
	Lng           *float64
}

func (p LocationPatch) apply(item models.Item) (models.Item, error) {
	orig, ok := item.(*models.Location)
	if !ok {
		return nil, ErrItemTypeMismatch
	}
	loc := orig.Clone().(*models.Location)

	if (p.Lat == nil) != (p.Lng == nil) {
		return nil, fmt.Errorf("%w (latitude and longitude go together)", ErrIncompleteLocation)
	}
	hasCoords := p.Lat != nil

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := models.ValidateName(name); err != nil {
			return nil, fmt.Errorf("%w (%v)", ErrIncompleteLocation, err)
		}
		if name != loc.Name && !hasCoords {
			return nil, ErrNeedsGeocode
		}
		loc.Name = name
	}
	if hasCoords {
		if err := models.ValidateCoordinates(*p.Lat, *p.Lng); err != nil {
			return nil, fmt.Errorf("%w (%v)", ErrInvalidCoordinates, err)
		}
		loc.Lat, loc.Lng = *p.Lat, *p.Lng
	}
	if p.GoogleAddress != nil {
		loc.GoogleAddress = strings.TrimSpace(*p.GoogleAddress)
	}
	if p.Time != nil {
		loc.Time = strings.TrimSpace(*p.Time)
	}
	if p.Notes != nil {
		loc.Notes = strings.TrimSpace(*p.Notes)
	}
	return loc, nil
}

// NotePatch changes a note's content. The timestamp never changes.
type NotePatch struct {
	Content *string
}

func (p NotePatch) apply(item models.Item) (models.Item, error) {
	orig, ok := item.(*models.Note)
	if !ok {
		return nil, ErrItemTypeMismatch
	}
	note := orig.Clone().(*models.Note)
	if p.Content != nil {
		if err := models.ValidateContent(*p.Content); err != nil {
			return nil, ErrEmptyNote
		}
		note.Content = strings.TrimSpace(*p.Content)
	}
	return note, nil
}
