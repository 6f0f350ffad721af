// ABOUTME: Ephemeral editor state: day selection, the exclusive edit slot,
// ABOUTME: and the geocode request token that guards against stale responses

package plan

// EditMode says what the edit slot is being used for.
type EditMode int

const (
	EditNone EditMode = iota
	EditCreate
	EditUpdate
)

func (m EditMode) String() string {
	switch m {
	case EditCreate:
		return "create"
	case EditUpdate:
		return "update"
	default:
		return "none"
	}
}

// Resolved holds coordinates returned by a geocode for the open form.
type Resolved struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
}

// Session is the editor state that is never persisted. At most one day is
// selected and at most one item is in edit at any time.
type Session struct {
	SelectedDayID string
	Mode          EditMode
	DayID         string
	// ItemID is set only in EditUpdate mode.
	ItemID string
	// Resolved is the latest accepted geocode result for the open form.
	Resolved *Resolved

	geocodeSeq uint64
}

// Editing reports whether an edit slot is open.
func (s Session) Editing() bool {
	return s.Mode != EditNone
}

// GeocodeToken returns the token of the most recently issued request.
func (s Session) GeocodeToken() uint64 {
	return s.geocodeSeq
}

// open replaces any in-progress edit. Pending geocode requests belong to
// the old form, so the token moves on and they will be discarded.
func (s *Session) open(mode EditMode, dayID, itemID string) {
	s.Mode = mode
	s.DayID = dayID
	s.ItemID = itemID
	s.Resolved = nil
	s.geocodeSeq++
}

func (s *Session) closeEdit() {
	s.open(EditNone, "", "")
}

// reset drops selection and edit state, as after import or clear.
func (s *Session) reset() {
	s.SelectedDayID = ""
	s.closeEdit()
}

func (s *Session) issueToken() uint64 {
	s.geocodeSeq++
	return s.geocodeSeq
}

// accept records a geocode result if token is still the latest one and a
// form is open. It reports whether the result was applied.
func (s *Session) accept(token uint64, r Resolved) bool {
	if token != s.geocodeSeq || s.Mode == EditNone {
		return false
	}
	s.Resolved = &r
	return true
}

func (s Session) clone() Session {
	c := s
	if s.Resolved != nil {
		r := *s.Resolved
		c.Resolved = &r
	}
	return c
}
