// ABOUTME: Form-driven editing through the exclusive edit slot
// ABOUTME: Begin a create or edit, feed geocode results, then submit or cancel

package plan

import (
	"context"
	"strings"

	"github.com/harper/itinerary/internal/models"
)

// LocationForm is the content of a submitted location form. Coordinates
// typed into the form win over geocoded ones.
type LocationForm struct {
	Name          string
	GoogleAddress string
	Time          string
	Notes         string
	Lat           *float64
	Lng           *float64
}

// BeginCreate opens the edit slot for a new item on dayID, cancelling any
// edit in progress.
func (s *Store) BeginCreate(dayID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan.FindDay(dayID) == nil {
		return ErrDayNotFound
	}
	s.session.open(EditCreate, dayID, "")
	return nil
}

// BeginEdit opens the edit slot on an existing item and returns a copy of
// it for pre-filling the form.
func (s *Store) BeginEdit(dayID, itemID string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.plan.FindDay(dayID)
	if day == nil {
		return nil, ErrDayNotFound
	}
	i := day.IndexOf(itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	s.session.open(EditUpdate, dayID, itemID)
	return day.Items[i].Clone(), nil
}

// CancelEdit closes the edit slot without touching the plan.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.closeEdit()
}

// ClearCoordinates drops the geocode result held for the open form.
func (s *Store) ClearCoordinates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Resolved = nil
}

// IssueGeocodeToken starts a new geocode request for the open form. Only
// the result carrying the latest token will be accepted.
func (s *Store) IssueGeocodeToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.issueToken()
}

// ApplyGeocode records a geocode result if its token is still current.
// Stale results are discarded and reported as false.
func (s *Store) ApplyGeocode(token uint64, lat, lng float64, formattedAddress string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.session.accept(token, Resolved{Lat: lat, Lng: lng, FormattedAddress: formattedAddress})
	if !ok {
		s.log.Debug().Uint64("token", token).Uint64("current", s.session.geocodeSeq).Msg("stale geocode result discarded")
	}
	return ok
}

// coordinates picks form coordinates, then the held geocode result.
func (s *Store) coordinates(form LocationForm) (lat, lng *float64) {
	if form.Lat != nil && form.Lng != nil {
		return form.Lat, form.Lng
	}
	if r := s.session.Resolved; r != nil {
		la, ln := r.Lat, r.Lng
		return &la, &ln
	}
	return nil, nil
}

// editTarget reads the open edit slot.
func (s *Store) editTarget() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.clone(), s.session.Editing()
}

// SubmitLocation completes the open edit with a location form. On success
// the edit slot closes; on failure it stays open so the caller can fix the
// form and resubmit.
func (s *Store) SubmitLocation(ctx context.Context, form LocationForm) (*models.Location, error) {
	sess, ok := s.editTarget()
	if !ok {
		return nil, ErrNoActiveEdit
	}

	s.mu.Lock()
	lat, lng := s.coordinates(form)
	s.mu.Unlock()

	var (
		item models.Item
		err  error
	)
	switch sess.Mode {
	case EditCreate:
		item, err = s.AddItem(ctx, sess.DayID, LocationDraft{
			Name:          form.Name,
			GoogleAddress: form.GoogleAddress,
			Time:          form.Time,
			Notes:         form.Notes,
			Lat:           lat,
			Lng:           lng,
		})
	case EditUpdate:
		item, err = s.UpdateItem(ctx, sess.DayID, sess.ItemID, LocationPatch{
			Name:          &form.Name,
			GoogleAddress: &form.GoogleAddress,
			Time:          &form.Time,
			Notes:         &form.Notes,
			Lat:           lat,
			Lng:           lng,
		})
	}
	if item == nil {
		return nil, err
	}

	s.finishEdit(sess)
	return item.(*models.Location), err
}

// SubmitNote completes the open edit with note content.
func (s *Store) SubmitNote(ctx context.Context, content string) (*models.Note, error) {
	sess, ok := s.editTarget()
	if !ok {
		return nil, ErrNoActiveEdit
	}

	var (
		item models.Item
		err  error
	)
	switch sess.Mode {
	case EditCreate:
		item, err = s.AddItem(ctx, sess.DayID, NoteDraft{Content: content})
	case EditUpdate:
		content = strings.TrimSpace(content)
		item, err = s.UpdateItem(ctx, sess.DayID, sess.ItemID, NotePatch{Content: &content})
	}
	if item == nil {
		return nil, err
	}

	s.finishEdit(sess)
	return item.(*models.Note), err
}

// finishEdit closes the slot unless another edit was opened meanwhile.
func (s *Store) finishEdit(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Mode == sess.Mode && s.session.DayID == sess.DayID && s.session.ItemID == sess.ItemID {
		s.session.closeEdit()
	}
}
