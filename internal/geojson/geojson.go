// ABOUTME: GeoJSON generation utilities
// ABOUTME: Converts plan locations to GeoJSON points and per-day routes

package geojson

import (
	"encoding/json"

	"github.com/harper/itinerary/internal/models"
)

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointCoordinates represents [longitude, latitude] for a Point.
type PointCoordinates [2]float64

// LineCoordinates represents [[lng, lat], [lng, lat], ...] for a LineString.
type LineCoordinates []PointCoordinates

// dayFilter returns the days to include along with their plan positions.
func dayFilter(p *models.TravelPlan, dayID string) ([]*models.Day, []int) {
	var days []*models.Day
	var positions []int
	for i, d := range p.Days {
		if dayID != "" && d.ID != dayID {
			continue
		}
		days = append(days, d)
		positions = append(positions, i)
	}
	return days, positions
}

// ToPointsFeatureCollection converts plan locations to a FeatureCollection
// of Points, one per location, carrying the day number, order within the
// day, and the day's palette color. When dayID is set, only that day is
// included.
func ToPointsFeatureCollection(p *models.TravelPlan, dayID string) *FeatureCollection {
	days, positions := dayFilter(p, dayID)
	features := make([]Feature, 0)

	for i, day := range days {
		color := models.DayColor(positions[i])
		for order, loc := range day.Locations() {
			props := map[string]interface{}{
				"id":    loc.ID,
				"name":  loc.Name,
				"day":   day.Number,
				"order": order + 1,
				"color": color,
			}
			if loc.GoogleAddress != "" {
				props["address"] = loc.GoogleAddress
			}
			if loc.Time != "" {
				props["time"] = loc.Time
			}
			if !day.Date.IsZero() {
				props["date"] = day.Date.String()
			}

			features = append(features, Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "Point",
					Coordinates: PointCoordinates{loc.Lng, loc.Lat},
				},
				Properties: props,
			})
		}
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// ToLineFeatureCollection converts each day's locations, in item order,
// to a LineString route. Days with fewer than two locations have no route.
func ToLineFeatureCollection(p *models.TravelPlan, dayID string) *FeatureCollection {
	days, positions := dayFilter(p, dayID)
	features := make([]Feature, 0, len(days))

	for i, day := range days {
		locs := day.Locations()
		if len(locs) < 2 {
			// Need at least 2 points for a line
			continue
		}

		coords := make(LineCoordinates, len(locs))
		for j, loc := range locs {
			coords[j] = PointCoordinates{loc.Lng, loc.Lat}
		}

		props := map[string]interface{}{
			"day":         day.Number,
			"color":       models.DayColor(positions[i]),
			"point_count": len(locs),
		}
		if !day.Date.IsZero() {
			props["date"] = day.Date.String()
		}

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: coords,
			},
			Properties: props,
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// ToJSON serializes a FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
