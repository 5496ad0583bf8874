// Package geo implements the route-canvas engine: bounds fitting,
// pixel projection, great-circle distances, GeoJSON LineString
// serialization, and the interactive waypoint editor.
package geo

import "errors"

// ErrNoPoints is returned when a bounds computation receives no input.
var ErrNoPoints = errors.New("geo: no points")

// GeoPoint is a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PointKind classifies a labeled point for rendering purposes only.
type PointKind string

const (
	KindStart PointKind = "start"
	KindEnd   PointKind = "end"
	KindPOI   PointKind = "poi"
)

// LabeledPoint is a GeoPoint with display metadata. Label and Kind drive
// marker selection and never affect geometry.
type LabeledPoint struct {
	GeoPoint
	Label string    `json:"label,omitempty"`
	Kind  PointKind `json:"kind"`
}

// Bounds is a geographic bounding box. MinLat <= MaxLat and
// MinLon <= MaxLon always hold; a degenerate box (min == max on an axis)
// is legal and handled by the projector.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the box (inclusive).
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Center returns the midpoint of the box.
func (b Bounds) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// ComputeBounds returns the minimal enclosing box over the given points.
// The caller must supply at least one point; an empty input is a contract
// violation and fails with ErrNoPoints rather than inventing a default.
func ComputeBounds(points []GeoPoint) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, ErrNoPoints
	}

	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b, nil
}
