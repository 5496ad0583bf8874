package geo

import "math"

// ClickTolerance is the proximity threshold, in degrees, under which a
// click on the map removes an existing waypoint instead of adding a new
// one. Covers a diagonal mis-click of one ten-thousandth of a degree on
// both axes (under 20 meters at mid-latitudes). Distance is plain
// Euclidean in degree space: it distorts toward the poles, but matches
// the removal radius the editor has always had on city-scale trails.
const ClickTolerance = 0.0002

// RouteEditor holds the ordered waypoint list of an in-progress trail
// path. It is a plain single-owner value: callers that share one across
// goroutines must serialize access themselves.
type RouteEditor struct {
	waypoints []GeoPoint
}

// NewRouteEditor returns an empty editor.
func NewRouteEditor() *RouteEditor {
	return &RouteEditor{}
}

// NewRouteEditorFromLineString seeds the editor from a persisted path, for
// editing an existing trail.
func NewRouteEditorFromLineString(ls LineString) (*RouteEditor, error) {
	points, err := ls.Points()
	if err != nil {
		return nil, err
	}
	return &RouteEditor{waypoints: points}, nil
}

// AddOrRemove handles a map click. If the click lands within
// ClickTolerance of an existing waypoint the first such waypoint (in list
// order) is removed and its index returned; otherwise the point is
// appended and (-1, true) is returned.
func (e *RouteEditor) AddOrRemove(lat, lon float64) (removedIndex int, added bool) {
	for i, wp := range e.waypoints {
		dLat := wp.Lat - lat
		dLon := wp.Lon - lon
		if math.Sqrt(dLat*dLat+dLon*dLon) < ClickTolerance {
			e.RemoveAt(i)
			return i, false
		}
	}
	e.waypoints = append(e.waypoints, GeoPoint{Lat: lat, Lon: lon})
	return -1, true
}

// RemoveAt deletes the waypoint at index i, preserving the order of the
// rest. Out-of-range indices are ignored.
func (e *RouteEditor) RemoveAt(i int) {
	if i < 0 || i >= len(e.waypoints) {
		return
	}
	e.waypoints = append(e.waypoints[:i], e.waypoints[i+1:]...)
}

// UndoLast drops the most recent waypoint. No-op on an empty list.
func (e *RouteEditor) UndoLast() {
	if n := len(e.waypoints); n > 0 {
		e.waypoints = e.waypoints[:n-1]
	}
}

// ClearAll resets the editor to empty. Always succeeds; calling it twice
// is the same as once.
func (e *RouteEditor) ClearAll() {
	e.waypoints = e.waypoints[:0]
}

// Waypoints returns a copy of the current ordered waypoint list.
func (e *RouteEditor) Waypoints() []GeoPoint {
	out := make([]GeoPoint, len(e.waypoints))
	copy(out, e.waypoints)
	return out
}

// Len returns the waypoint count.
func (e *RouteEditor) Len() int {
	return len(e.waypoints)
}

// TotalDistanceKm returns the haversine length of the current path.
func (e *RouteEditor) TotalDistanceKm() float64 {
	return PathDistanceKm(e.waypoints)
}

// ToLineString snapshots the current path into its persisted form.
func (e *RouteEditor) ToLineString() LineString {
	return EncodeLineString(e.waypoints)
}
