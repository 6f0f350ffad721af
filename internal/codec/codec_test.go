// ABOUTME: Tests for plan serialization
// ABOUTME: Covers JSON round trips, legacy import migration, YAML backups, and markdown

package codec

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/harper/itinerary/internal/models"
	"github.com/harper/itinerary/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *models.TravelPlan {
	start := models.NewDate(2024, 5, 1)
	return &models.TravelPlan{
		Title:     "Paris",
		StartDate: start,
		EndDate:   start.AddDays(1),
		Days: []*models.Day{
			{
				ID: "day_1", Number: 1, Date: start,
				Items: []models.Item{
					&models.Location{ID: "loc_1", Name: "Louvre", GoogleAddress: "Rue de Rivoli, Paris", Time: "10:00", Lat: 48.8606, Lng: 2.3376},
					&models.Note{ID: "note_1", Content: "buy tickets", Timestamp: time.Date(2024, 4, 1, 10, 0, 0, 123000000, time.UTC)},
					&models.Location{ID: "loc_2", Name: "Origin", Lat: 0, Lng: 0},
				},
			},
			{ID: "day_2", Number: 2, Date: start.AddDays(1), Items: []models.Item{}},
		},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	plan := samplePlan()

	data, err := Encode(plan)
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(plan, back), "round trip changed the plan:\nwant %#v\ngot  %#v", plan, back)
}

func TestEncodeDecode_RoundTripFreshPlan(t *testing.T) {
	plan := models.NewPlan()
	plan.StartDate = models.NewDate(2025, 1, 1)
	day := models.NewDay(1, plan.StartDate)
	day.Items = append(day.Items, models.NewNote("hello"), models.NewLocation("Somewhere", -33.9, 151.2))
	plan.Days = append(plan.Days, day)

	data, err := Encode(plan)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)

	again, err := Encode(back)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestEncode_CurrentShape(t *testing.T) {
	data, err := Encode(samplePlan())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	day := doc["days"].([]any)[0].(map[string]any)
	assert.NotContains(t, day, "locations")
	assert.NotContains(t, day, "notes")
	items := day["items"].([]any)
	require.Len(t, items, 3)
	assert.Equal(t, "location", items[0].(map[string]any)["type"])
	assert.Equal(t, "note", items[1].(map[string]any)["type"])

	origin := items[2].(map[string]any)
	assert.Equal(t, 0.0, origin["lat"], "zero coordinates must still be written")
	assert.NotContains(t, origin, "googleAddress")

	assert.True(t, strings.HasPrefix(string(data), "{\n  \"title\""), "expected two-space indent")
}

func TestEncode_EmptyDayHasItemsArray(t *testing.T) {
	data, err := Encode(samplePlan())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items": []`)
}

func TestDecode_LegacyShapeIsMigrated(t *testing.T) {
	legacy := `{
	  "title": "Old trip",
	  "startDate": "2023-08-01",
	  "endDate": "",
	  "days": [{
	    "id": "day_1", "number": 1, "date": "2023-08-01",
	    "locations": [
	      {"id": "loc_a", "name": "A", "lat": 1, "lng": 2},
	      {"id": "loc_b", "name": "B", "lat": 3, "lng": 4}
	    ],
	    "notes": [{"id": "note_c", "content": "C", "timestamp": "2023-07-01T00:00:00.000Z"}]
	  }]
	}`

	plan, err := Decode([]byte(legacy))
	require.NoError(t, err)

	day := plan.Days[0]
	assert.False(t, day.IsLegacy())
	assert.Nil(t, day.LegacyLocations)
	ids := make([]string, 0, len(day.Items))
	for _, item := range day.Items {
		ids = append(ids, item.ItemID())
	}
	assert.Equal(t, []string{"loc_a", "loc_b", "note_c"}, ids)

	data, err := Encode(plan)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"locations"`)
}

func TestDecode_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason validate.Reason
	}{
		{"mixed_shape", `{"days": [{"id": "d", "number": 1, "date": "2024-01-01",
			"locations": [{"id": "l", "name": "n", "lat": 1, "lng": 1}],
			"items": [{"type": "location", "id": "l2", "name": "n", "lat": 1, "lng": 1}]}]}`, validate.MixedDayShape},
		{"unknown_type", `{"days": [{"id": "d", "number": 1, "date": "2024-01-01",
			"items": [{"type": "foo", "id": "x"}]}]}`, validate.UnknownItemType},
		{"quoted_lat", `{"days": [{"id": "d", "number": 1, "date": "2024-01-01",
			"items": [{"type": "location", "id": "l", "name": "n", "lat": "1.5", "lng": 1}]}]}`, validate.NonNumericCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Decode([]byte(tt.input))
			assert.Nil(t, plan)
			require.ErrorIs(t, err, validate.ErrInvalid)
			var verr *validate.Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestDecode_ParseErrors(t *testing.T) {
	for _, input := range []string{"", "{", "not json", `{"days": []} trailing`} {
		_, err := Decode([]byte(input))
		assert.ErrorIs(t, err, ErrParse, "input %q", input)
	}
}

func TestYAMLBackup_RoundTrip(t *testing.T) {
	plan := samplePlan()

	data, err := EncodeYAML(plan)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tool: itinerary")

	back, err := DecodeYAML(data)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(plan, back), "yaml round trip changed the plan")
}

func TestDecodeYAML_RejectsForeignBackups(t *testing.T) {
	_, err := DecodeYAML([]byte("version: \"1.0\"\ntool: position\nitems: []\n"))
	assert.Error(t, err)

	_, err = DecodeYAML([]byte("version: \"9\"\ntool: itinerary\nplan: {days: []}\n"))
	assert.Error(t, err)

	_, err = DecodeYAML([]byte("version: \"1.0\"\ntool: itinerary\nplan: {days: [{id: d}]}\n"))
	assert.ErrorIs(t, err, validate.ErrInvalid)
}

func TestEncodeMarkdown(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	md := string(EncodeMarkdown(samplePlan(), "", now))

	assert.Contains(t, md, "# Paris")
	assert.Contains(t, md, "## Day 1 (Wed May 1, 2024)")
	assert.Contains(t, md, "**10:00** [Louvre](https://www.google.com/maps/search/?api=1&query=Rue+de+Rivoli%2C+Paris)")
	assert.Contains(t, md, "_Note:_ buy tickets")
	assert.Contains(t, md, "## Day 2")
	assert.Contains(t, md, "Nothing planned.")

	assert.Less(t, strings.Index(md, "Louvre"), strings.Index(md, "buy tickets"), "item order must be kept")
}

func TestEncodeMarkdown_SingleDay(t *testing.T) {
	md := string(EncodeMarkdown(samplePlan(), "day_2", time.Now()))
	assert.NotContains(t, md, "Louvre")
	assert.Contains(t, md, "## Day 2")

	md = string(EncodeMarkdown(models.NewPlan(), "", time.Now()))
	assert.Contains(t, md, "No days planned.")
}

func TestNavigationURL(t *testing.T) {
	loc := &models.Location{Name: "Eiffel Tower"}
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Eiffel+Tower", NavigationURL(loc))
}
