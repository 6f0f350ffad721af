// ABOUTME: Unit tests for GeoJSON generation
// ABOUTME: Tests Point and per-day LineString feature collection builders

package geojson

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/harper/itinerary/internal/models"
)

func testPlan() *models.TravelPlan {
	start := models.NewDate(2024, 5, 1)
	return &models.TravelPlan{
		Title:     "Chicago",
		StartDate: start,
		Days: []*models.Day{
			{ID: "day_a", Number: 1, Date: start, Items: []models.Item{
				&models.Location{ID: "loc_1", Name: "Bean", GoogleAddress: "201 E Randolph St", Time: "09:00", Lat: 41.8827, Lng: -87.6233},
				&models.Note{ID: "note_1", Content: "coffee", Timestamp: time.Now()},
				&models.Location{ID: "loc_2", Name: "Art Institute", Lat: 41.8796, Lng: -87.6237},
			}},
			{ID: "day_b", Number: 2, Date: start.AddDays(1), Items: []models.Item{
				&models.Location{ID: "loc_3", Name: "Wrigley", Lat: 41.9484, Lng: -87.6553},
			}},
			{ID: "day_c", Number: 3, Date: start.AddDays(2), Items: []models.Item{}},
		},
	}
}

func TestToPointsFeatureCollection(t *testing.T) {
	fc := ToPointsFeatureCollection(testPlan(), "")

	if fc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection type, got %s", fc.Type)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 location features, got %d", len(fc.Features))
	}

	feature := fc.Features[0]
	if feature.Geometry.Type != "Point" {
		t.Errorf("expected Point geometry, got %s", feature.Geometry.Type)
	}
	coords, ok := feature.Geometry.Coordinates.(PointCoordinates)
	if !ok {
		t.Fatal("expected PointCoordinates")
	}
	// GeoJSON uses [lng, lat] order
	if coords[0] != -87.6233 || coords[1] != 41.8827 {
		t.Errorf("unexpected coordinates %v", coords)
	}

	props := feature.Properties
	if props["name"] != "Bean" || props["day"] != 1 || props["order"] != 1 {
		t.Errorf("unexpected properties %v", props)
	}
	if props["color"] != "#667eea" {
		t.Errorf("expected first day color, got %v", props["color"])
	}
	if props["address"] != "201 E Randolph St" || props["time"] != "09:00" || props["date"] != "2024-05-01" {
		t.Errorf("missing optional properties: %v", props)
	}

	second := fc.Features[1].Properties
	if second["order"] != 2 {
		t.Errorf("notes should not count toward order, got %v", second["order"])
	}
	if _, ok := second["address"]; ok {
		t.Error("empty address should be omitted")
	}

	if fc.Features[2].Properties["color"] != "#f093fb" {
		t.Errorf("expected second day color, got %v", fc.Features[2].Properties["color"])
	}
}

func TestToPointsFeatureCollection_SelectedDay(t *testing.T) {
	fc := ToPointsFeatureCollection(testPlan(), "day_b")
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties["name"] != "Wrigley" {
		t.Errorf("unexpected feature %v", fc.Features[0].Properties)
	}
	// Color follows the day's position in the plan, not in the output.
	if fc.Features[0].Properties["color"] != "#f093fb" {
		t.Errorf("expected position-based color, got %v", fc.Features[0].Properties["color"])
	}
}

func TestToLineFeatureCollection(t *testing.T) {
	fc := ToLineFeatureCollection(testPlan(), "")

	// Only day 1 has two or more locations.
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 route, got %d", len(fc.Features))
	}

	feature := fc.Features[0]
	if feature.Geometry.Type != "LineString" {
		t.Errorf("expected LineString geometry, got %s", feature.Geometry.Type)
	}
	coords, ok := feature.Geometry.Coordinates.(LineCoordinates)
	if !ok {
		t.Fatal("expected LineCoordinates")
	}
	if len(coords) != 2 {
		t.Fatalf("expected 2 points, got %d", len(coords))
	}
	if coords[0][0] != -87.6233 || coords[1][0] != -87.6237 {
		t.Errorf("route should follow item order, got %v", coords)
	}
	if feature.Properties["day"] != 1 || feature.Properties["point_count"] != 2 {
		t.Errorf("unexpected properties %v", feature.Properties)
	}
}

func TestToLineFeatureCollection_SelectedDayWithoutRoute(t *testing.T) {
	fc := ToLineFeatureCollection(testPlan(), "day_b")
	if len(fc.Features) != 0 {
		t.Errorf("expected no routes, got %d", len(fc.Features))
	}
}

func TestEmptyPlanSerializesFeaturesArray(t *testing.T) {
	fc := ToPointsFeatureCollection(models.NewPlan(), "")
	data, err := fc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if string(data) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("unexpected JSON %s", data)
	}
}

func TestToJSONIndent(t *testing.T) {
	fc := ToLineFeatureCollection(testPlan(), "")
	data, err := fc.ToJSONIndent()
	if err != nil {
		t.Fatalf("ToJSONIndent failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["type"] != "FeatureCollection" {
		t.Errorf("unexpected type %v", parsed["type"])
	}
}
