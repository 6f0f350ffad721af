// ABOUTME: Tests for day and item reference resolution
// ABOUTME: Covers numbers, IDs, unique prefixes, and ambiguity

package plan

import (
	"testing"

	"github.com/harper/itinerary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refPlan() *models.TravelPlan {
	return &models.TravelPlan{
		Days: []*models.Day{
			{ID: "day_1", Number: 1, Items: []models.Item{
				&models.Note{ID: "note_abc", Content: "a"},
				&models.Note{ID: "note_abd", Content: "b"},
			}},
			{ID: "day_2", Number: 2, Items: []models.Item{
				&models.Location{ID: "loc_xyz", Name: "x"},
			}},
		},
	}
}

func TestResolveDay(t *testing.T) {
	p := refPlan()

	d, err := ResolveDay(p, "2")
	require.NoError(t, err)
	assert.Equal(t, "day_2", d.ID)

	d, err = ResolveDay(p, "day_1")
	require.NoError(t, err)
	assert.Equal(t, "day_1", d.ID)

	for _, ref := range []string{"0", "3", "day_9"} {
		_, err := ResolveDay(p, ref)
		assert.ErrorIs(t, err, ErrDayNotFound, ref)
	}
}

func TestResolveItem(t *testing.T) {
	day := refPlan().Days[0]

	item, err := ResolveItem(day, "note_abd")
	require.NoError(t, err)
	assert.Equal(t, "note_abd", item.ItemID())

	_, err = ResolveItem(day, "note_ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = ResolveItem(day, "loc")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestResolveItemByPosition(t *testing.T) {
	day := refPlan().Days[0]

	item, err := ResolveItem(day, "2")
	require.NoError(t, err)
	assert.Equal(t, "note_abd", item.ItemID())

	for _, ref := range []string{"0", "3"} {
		_, err := ResolveItem(day, ref)
		assert.ErrorIs(t, err, ErrItemNotFound, ref)
	}
}

func TestFindItem(t *testing.T) {
	p := refPlan()

	day, item, err := FindItem(p, "loc_x")
	require.NoError(t, err)
	assert.Equal(t, "day_2", day.ID)
	assert.Equal(t, "loc_xyz", item.ItemID())

	_, _, err = FindItem(p, "note_a")
	assert.ErrorContains(t, err, "ambiguous")

	_, _, err = FindItem(p, "nothing")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, _, err = FindItem(p, "1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}
