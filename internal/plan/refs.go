// ABOUTME: Resolves human-typed references to days and items
// ABOUTME: Days by number or ID; items by position, ID, or unique ID prefix

package plan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harper/itinerary/internal/models"
)

// ResolveDay finds a day by 1-based number or by ID.
func ResolveDay(p *models.TravelPlan, ref string) (*models.Day, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(p.Days) {
			return nil, fmt.Errorf("%w: day %d (plan has %d days)", ErrDayNotFound, n, len(p.Days))
		}
		return p.Days[n-1], nil
	}
	if d := p.FindDay(ref); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrDayNotFound, ref)
}

// ResolveItem finds an item in day by 1-based position, exact ID, or a
// unique ID prefix.
func ResolveItem(day *models.Day, ref string) (models.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrItemNotFound)
	}

	items := day.ItemList()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return nil, fmt.Errorf("%w: item %d (day %d has %d items)", ErrItemNotFound, n, day.Number, len(items))
		}
		return items[n-1], nil
	}

	var match models.Item
	for _, item := range items {
		if item.ItemID() == ref {
			return item, nil
		}
		if strings.HasPrefix(item.ItemID(), ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous item reference %q", ref)
			}
			match = item
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrItemNotFound, ref)
	}
	return match, nil
}

// FindItem searches every day for an item by exact ID, then by unique prefix.
func FindItem(p *models.TravelPlan, ref string) (*models.Day, models.Item, error) {
	ref = strings.TrimSpace(ref)
	if _, err := strconv.Atoi(ref); err == nil {
		return nil, nil, fmt.Errorf("%w: position %s needs a day", ErrItemNotFound, ref)
	}
	for _, day := range p.Days {
		if i := day.IndexOf(ref); i >= 0 {
			return day, day.Items[i], nil
		}
	}

	var (
		foundDay  *models.Day
		foundItem models.Item
	)
	for _, day := range p.Days {
		item, err := ResolveItem(day, ref)
		if errors.Is(err, ErrItemNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if foundItem != nil {
			return nil, nil, fmt.Errorf("ambiguous item reference %q", ref)
		}
		foundDay, foundItem = day, item
	}
	if foundItem == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrItemNotFound, ref)
	}
	return foundDay, foundItem, nil
}
