package geo

import (
	"encoding/json"
	"fmt"
)

// LineString is the GeoJSON-style wire form of an ordered path. Note the
// coordinate order: [longitude, latitude], the opposite of GeoPoint.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// EncodeLineString converts an ordered point sequence to its LineString
// form, preserving order.
func EncodeLineString(points []GeoPoint) LineString {
	coords := make([][2]float64, len(points))
	for i, p := range points {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return LineString{Type: "LineString", Coordinates: coords}
}

// DecodeLineString parses serialized LineString JSON back into points.
// Anything that is not a well-formed LineString is reported as an error;
// callers are expected to degrade (render nothing) rather than abort.
func DecodeLineString(data []byte) ([]GeoPoint, error) {
	var ls LineString
	if err := json.Unmarshal(data, &ls); err != nil {
		return nil, fmt.Errorf("decode linestring: %w", err)
	}
	return ls.Points()
}

// Points converts the wire form back to GeoPoints, validating the type tag.
func (ls LineString) Points() ([]GeoPoint, error) {
	if ls.Type != "LineString" {
		return nil, fmt.Errorf("decode linestring: unexpected geometry type %q", ls.Type)
	}
	points := make([]GeoPoint, len(ls.Coordinates))
	for i, c := range ls.Coordinates {
		points[i] = GeoPoint{Lat: c[1], Lon: c[0]}
	}
	return points, nil
}

// IsEmpty reports whether the line carries no vertices.
func (ls LineString) IsEmpty() bool {
	return len(ls.Coordinates) == 0
}
