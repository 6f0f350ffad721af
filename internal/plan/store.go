// ABOUTME: The plan store owns the live travel plan and applies every mutation
// ABOUTME: Each operation runs to completion under a lock, then persists, then notifies

package plan

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/harper/itinerary/internal/codec"
	"github.com/harper/itinerary/internal/models"
	"github.com/harper/itinerary/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Listener receives change notifications after a mutation completes.
// Calls happen outside the store lock with a private copy of the plan.
type Listener interface {
	PlanChanged(plan *models.TravelPlan)
	SelectionChanged(dayID string)
}

// Store holds the single live TravelPlan and its editor session.
type Store struct {
	mu        sync.Mutex
	plan      *models.TravelPlan
	session   Session
	snapshots storage.SnapshotStore
	key       string
	listener  Listener
	log       zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithListener registers the presentation callbacks.
func WithListener(l Listener) Option {
	return func(s *Store) { s.listener = l }
}

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithKey sets the snapshot key the plan is persisted under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New returns a store holding an empty plan. Without snapshots the store
// keeps everything in memory.
func New(snapshots storage.SnapshotStore, opts ...Option) *Store {
	s := &Store{
		plan:      models.NewPlan(),
		snapshots: snapshots,
		key:       storage.DefaultKey,
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("plan_key", s.key).Logger()
	return s
}

// Open returns a store initialized from the snapshot under its key. A
// missing snapshot yields an empty plan. A snapshot that fails to decode
// is an error; it is never silently replaced.
func Open(ctx context.Context, snapshots storage.SnapshotStore, opts ...Option) (*Store, error) {
	s := New(snapshots, opts...)

	data, err := snapshots.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug().Msg("no saved plan, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load plan %q: %w", s.key, err)
	}

	p, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode plan %q: %w", s.key, err)
	}
	p.Renumber()
	s.plan = p
	s.log.Debug().Int("days", len(p.Days)).Msg("plan loaded")
	return s, nil
}

// Key returns the snapshot key.
func (s *Store) Key() string {
	return s.key
}

// Plan returns a deep copy of the live plan.
func (s *Store) Plan() *models.TravelPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Session returns a copy of the editor session.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.clone()
}

// change says what a mutation touched.
type change struct {
	plan      bool
	selection bool
}

// mutate runs fn under the lock. When fn reports a plan change the
// snapshot is written after fn returns; listeners run last, unlocked.
// A persistence failure is returned but the in-memory change stands.
func (s *Store) mutate(ctx context.Context, fn func() (change, error)) error {
	s.mu.Lock()
	ch, err := fn()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var persistErr error
	var snapshot *models.TravelPlan
	if ch.plan {
		persistErr = s.persistLocked(ctx)
		snapshot = s.plan.Clone()
	}
	selected := s.session.SelectedDayID
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		if ch.plan {
			listener.PlanChanged(snapshot)
		}
		if ch.selection {
			listener.SelectionChanged(selected)
		}
	}
	return persistErr
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	data, err := codec.Encode(s.plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		s.log.Error().Err(err).Msg("persist plan failed")
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// CreateDay appends a new day dated startDate + dayCount.
func (s *Store) CreateDay(ctx context.Context) (*models.Day, error) {
	var day *models.Day
	err := s.mutate(ctx, func() (change, error) {
		if s.plan.StartDate.IsZero() {
			return change{}, ErrNoStartDate
		}
		n := len(s.plan.Days)
		d := models.NewDay(n+1, s.plan.StartDate.AddDays(n))
		s.plan.Days = append(s.plan.Days, d)
		day = d.Clone()
		s.log.Debug().Str("day_id", d.ID).Int("number", d.Number).Msg("day created")
		return change{plan: true}, nil
	})
	if day == nil {
		return nil, err
	}
	return day, err
}

// DeleteDay removes a day and renumbers the rest. Selection and any edit
// on the day are cleared.
func (s *Store) DeleteDay(ctx context.Context, dayID string) error {
	return s.mutate(ctx, func() (change, error) {
		i := s.plan.DayIndex(dayID)
		if i < 0 {
			return change{}, ErrDayNotFound
		}
		s.plan.Days = slices.Delete(s.plan.Days, i, i+1)
		s.plan.Renumber()

		ch := change{plan: true}
		if s.session.SelectedDayID == dayID {
			s.session.SelectedDayID = ""
			ch.selection = true
		}
		if s.session.DayID == dayID {
			s.session.closeEdit()
		}
		s.log.Debug().Str("day_id", dayID).Msg("day deleted")
		return ch, nil
	})
}

// AddItem validates the draft and appends the new item to the day.
func (s *Store) AddItem(ctx context.Context, dayID string, draft Draft) (models.Item, error) {
	var added models.Item
	err := s.mutate(ctx, func() (change, error) {
		day := s.plan.FindDay(dayID)
		if day == nil {
			return change{}, ErrDayNotFound
		}
		item, err := draft.build()
		if err != nil {
			return change{}, err
		}
		day.Items = append(day.ItemList(), item)
		added = item.Clone()
		s.log.Debug().Str("day_id", dayID).Str("item_id", item.ItemID()).Str("type", string(item.Type())).Msg("item added")
		return change{plan: true}, nil
	})
	if added == nil {
		return nil, err
	}
	return added, err
}

// UpdateItem applies patch to the item in place. ID, type, and position
// never change.
func (s *Store) UpdateItem(ctx context.Context, dayID, itemID string, patch Patch) (models.Item, error) {
	var updated models.Item
	err := s.mutate(ctx, func() (change, error) {
		day := s.plan.FindDay(dayID)
		if day == nil {
			return change{}, ErrDayNotFound
		}
		i := day.IndexOf(itemID)
		if i < 0 {
			return change{}, ErrItemNotFound
		}
		item, err := patch.apply(day.Items[i])
		if err != nil {
			return change{}, err
		}
		day.Items[i] = item
		updated = item.Clone()
		s.log.Debug().Str("day_id", dayID).Str("item_id", itemID).Msg("item updated")
		return change{plan: true}, nil
	})
	if updated == nil {
		return nil, err
	}
	return updated, err
}

// DeleteItem removes an item. A missing day or item is not an error.
func (s *Store) DeleteItem(ctx context.Context, dayID, itemID string) error {
	return s.mutate(ctx, func() (change, error) {
		day := s.plan.FindDay(dayID)
		if day == nil {
			return change{}, nil
		}
		i := day.IndexOf(itemID)
		if i < 0 {
			return change{}, nil
		}
		day.Items = slices.Delete(day.Items, i, i+1)
		if s.session.ItemID == itemID {
			s.session.closeEdit()
		}
		s.log.Debug().Str("day_id", dayID).Str("item_id", itemID).Msg("item deleted")
		return change{plan: true}, nil
	})
}

// ReorderItem moves an item to targetIndex in the target day. The index
// refers to the target list after the item has been removed from its
// source, and is clamped to that list's bounds.
func (s *Store) ReorderItem(ctx context.Context, sourceDayID, targetDayID, itemID string, targetIndex int) error {
	return s.mutate(ctx, func() (change, error) {
		src := s.plan.FindDay(sourceDayID)
		dst := s.plan.FindDay(targetDayID)
		if src == nil || dst == nil {
			return change{}, ErrDayNotFound
		}
		i := src.IndexOf(itemID)
		if i < 0 {
			return change{}, ErrItemNotFound
		}
		models.Normalize(dst)

		item := src.Items[i]
		src.Items = slices.Delete(src.Items, i, i+1)
		target := max(0, min(targetIndex, len(dst.Items)))
		dst.Items = slices.Insert(dst.Items, target, item)

		if src == dst && target == i {
			return change{}, nil
		}
		if s.session.ItemID == itemID {
			s.session.DayID = targetDayID
		}
		s.log.Debug().
			Str("item_id", itemID).
			Str("from_day", sourceDayID).
			Str("to_day", targetDayID).
			Int("index", target).
			Msg("item moved")
		return change{plan: true}, nil
	})
}

// SelectDay focuses a day for display. An empty dayID clears the selection.
func (s *Store) SelectDay(dayID string) error {
	return s.mutate(context.Background(), func() (change, error) {
		if dayID != "" && s.plan.FindDay(dayID) == nil {
			return change{}, ErrDayNotFound
		}
		if s.session.SelectedDayID == dayID {
			return change{}, nil
		}
		s.session.SelectedDayID = dayID
		return change{selection: true}, nil
	})
}

// ToggleDay selects dayID, or clears the selection if it is already selected.
func (s *Store) ToggleDay(dayID string) error {
	return s.mutate(context.Background(), func() (change, error) {
		if s.plan.FindDay(dayID) == nil {
			return change{}, ErrDayNotFound
		}
		if s.session.SelectedDayID == dayID {
			s.session.SelectedDayID = ""
		} else {
			s.session.SelectedDayID = dayID
		}
		return change{selection: true}, nil
	})
}

// SetDateRange sets the plan's dates. When a start date is set every day
// is redated to start + index; items are untouched.
func (s *Store) SetDateRange(ctx context.Context, start, end models.Date) error {
	return s.mutate(ctx, func() (change, error) {
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return change{}, ErrInvalidDateRange
		}
		s.plan.StartDate = start
		s.plan.EndDate = end
		s.plan.RedateFrom(start)
		s.log.Debug().Str("start", start.String()).Str("end", end.String()).Msg("dates set")
		return change{plan: true}, nil
	})
}

// SetTitle renames the plan. A blank title restores the default.
func (s *Store) SetTitle(ctx context.Context, title string) error {
	return s.mutate(ctx, func() (change, error) {
		title = strings.TrimSpace(title)
		if title == "" {
			title = models.DefaultTitle
		}
		s.plan.Title = title
		return change{plan: true}, nil
	})
}

// Clear replaces the plan with an empty one. A non-empty plan needs confirmed.
func (s *Store) Clear(ctx context.Context, confirmed bool) error {
	return s.mutate(ctx, func() (change, error) {
		if !s.plan.IsEmpty() && !confirmed {
			return change{}, ErrConfirmationRequired
		}
		s.replaceLocked(models.NewPlan())
		s.log.Info().Msg("plan cleared")
		return change{plan: true, selection: true}, nil
	})
}

// NewTrip clears the plan, sets the start date, and adds the first day.
func (s *Store) NewTrip(ctx context.Context, start models.Date, confirmed bool) (*models.Day, error) {
	var day *models.Day
	err := s.mutate(ctx, func() (change, error) {
		if start.IsZero() {
			return change{}, ErrNoStartDate
		}
		if !s.plan.IsEmpty() && !confirmed {
			return change{}, ErrConfirmationRequired
		}
		p := models.NewPlan()
		p.StartDate = start
		d := models.NewDay(1, start)
		p.Days = append(p.Days, d)
		s.replaceLocked(p)
		day = d.Clone()
		s.log.Info().Str("start", start.String()).Msg("new trip")
		return change{plan: true, selection: true}, nil
	})
	if day == nil {
		return nil, err
	}
	return day, err
}

// Import decodes, validates, and installs a serialized plan. Nothing
// changes unless every step succeeds.
func (s *Store) Import(ctx context.Context, data []byte, confirmed bool) error {
	p, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("import plan: %w", err)
	}
	return s.Replace(ctx, p, confirmed)
}

// Replace installs an already validated plan, as for restoring a backup.
func (s *Store) Replace(ctx context.Context, p *models.TravelPlan, confirmed bool) error {
	p = p.Clone()
	p.NormalizeAll()
	p.Renumber()
	return s.mutate(ctx, func() (change, error) {
		if !s.plan.IsEmpty() && !confirmed {
			return change{}, ErrConfirmationRequired
		}
		s.replaceLocked(p)
		s.log.Info().Int("days", len(p.Days)).Int("items", p.ItemCount()).Msg("plan replaced")
		return change{plan: true, selection: true}, nil
	})
}

func (s *Store) replaceLocked(p *models.TravelPlan) {
	s.plan = p
	s.session.reset()
}
