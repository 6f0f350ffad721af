// ABOUTME: Drag-and-drop coordination and the insertion index rule
// ABOUTME: Geometry-free core: callers pass the rendered boxes of a day's items

package reorder

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/harper/itinerary/internal/plan"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoDrag is returned when a drop arrives without an active drag.
var ErrNoDrag = errors.New("no drag in progress")

// Box is the vertical extent of one rendered item, in display order.
type Box struct {
	ItemID string
	Top    float64
	Height float64
}

// Midpoint returns the vertical center of the box.
func (b Box) Midpoint() float64 {
	return b.Top + b.Height/2
}

// InsertionIndex returns where a dragged item lands when dropped at
// cursorY over boxes. The dragged item's own box is ignored. The item goes
// before the first remaining box whose midpoint is below the cursor, or at
// the end when there is none. The result indexes the list with the dragged
// item already removed.
func InsertionIndex(boxes []Box, cursorY float64, draggedID string) int {
	best := -1
	bestOffset := math.Inf(-1)
	pos := 0
	for _, b := range boxes {
		if b.ItemID == draggedID {
			continue
		}
		offset := cursorY - b.Midpoint()
		if offset < 0 && offset > bestOffset {
			bestOffset = offset
			best = pos
		}
		pos++
	}
	if best < 0 {
		return pos
	}
	return best
}

// Mover is the part of the plan store a Coordinator drives.
type Mover interface {
	ReorderItem(ctx context.Context, sourceDayID, targetDayID, itemID string, targetIndex int) error
	SelectDay(dayID string) error
	ToggleDay(dayID string) error
}

var _ Mover = (*plan.Store)(nil)

// Drag describes the drag in progress.
type Drag struct {
	ItemID      string
	SourceDayID string
}

// Coordinator tracks the single active drag and forwards drops and
// selection changes to the store.
type Coordinator struct {
	mu     sync.Mutex
	store  Mover
	active *Drag
	log    zerolog.Logger
}

// NewCoordinator returns a coordinator bound to store.
func NewCoordinator(store Mover) *Coordinator {
	return &Coordinator{
		store: store,
		log:   log.Logger.With().Str("component", "reorder").Logger(),
	}
}

// BeginDrag starts dragging itemID out of sourceDayID. It reports false
// and changes nothing when another drag is already active.
func (c *Coordinator) BeginDrag(itemID, sourceDayID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.log.Debug().Str("item_id", itemID).Str("active", c.active.ItemID).Msg("drag ignored, another is active")
		return false
	}
	c.active = &Drag{ItemID: itemID, SourceDayID: sourceDayID}
	return true
}

// Active returns the drag in progress, if any.
func (c *Coordinator) Active() (Drag, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return Drag{}, false
	}
	return *c.active, true
}

// CancelDrag ends the active drag without moving anything.
func (c *Coordinator) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// Drop ends the active drag by moving the item into targetDayID at the
// index computed from cursorY and the target's boxes. The drag ends
// whether or not the move succeeds.
func (c *Coordinator) Drop(ctx context.Context, targetDayID string, cursorY float64, boxes []Box) (int, error) {
	c.mu.Lock()
	drag := c.active
	c.active = nil
	c.mu.Unlock()

	if drag == nil {
		return 0, ErrNoDrag
	}

	index := InsertionIndex(boxes, cursorY, drag.ItemID)
	if err := c.store.ReorderItem(ctx, drag.SourceDayID, targetDayID, drag.ItemID, index); err != nil {
		return 0, err
	}
	return index, nil
}

// Select focuses dayID, or clears the focus when dayID is empty.
func (c *Coordinator) Select(dayID string) error {
	return c.store.SelectDay(dayID)
}

// Toggle flips the focus on dayID.
func (c *Coordinator) Toggle(dayID string) error {
	return c.store.ToggleDay(dayID)
}
