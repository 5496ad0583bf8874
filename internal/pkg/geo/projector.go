package geo

// DefaultPadding is the fraction of the coordinate range added on each
// side of the canvas so markers don't touch the edge.
const DefaultPadding = 0.1

// minRange substitutes for a zero-width axis so a single point (or a set
// of identical points) still projects to a finite, centered position.
const minRange = 0.01

// PixelPoint is a position on the drawing surface, origin top-left.
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projector maps geographic coordinates onto a fixed-size canvas.
// It is a pure value: build one from a Bounds and canvas size, call
// Project per point in any order.
type Projector struct {
	bounds   Bounds
	width    float64
	height   float64
	padding  float64
	latRange float64
	lonRange float64
}

// NewProjector builds a projector for the given box and canvas dimensions.
// padding <= 0 falls back to DefaultPadding. Degenerate axes are widened
// to minRange so the projection never divides by zero.
func NewProjector(b Bounds, width, height int, padding float64) Projector {
	if padding <= 0 {
		padding = DefaultPadding
	}

	// A collapsed axis is widened symmetrically around the point so a
	// single-point box still projects to the middle of the canvas.
	latRange := b.MaxLat - b.MinLat
	if latRange == 0 {
		latRange = minRange
		b.MinLat -= minRange / 2
	}
	lonRange := b.MaxLon - b.MinLon
	if lonRange == 0 {
		lonRange = minRange
		b.MinLon -= minRange / 2
	}

	return Projector{
		bounds:   b,
		width:    float64(width),
		height:   float64(height),
		padding:  padding,
		latRange: latRange,
		lonRange: lonRange,
	}
}

// Project maps a point into [0,W] x [0,H]. Longitude grows left to right;
// the canvas Y axis grows downward, so latitude is flipped.
func (pr Projector) Project(p GeoPoint) PixelPoint {
	x := ((p.Lon - pr.bounds.MinLon + pr.padding*pr.lonRange) /
		(pr.lonRange * (1 + 2*pr.padding))) * pr.width
	y := pr.height - ((p.Lat-pr.bounds.MinLat+pr.padding*pr.latRange)/
		(pr.latRange*(1+2*pr.padding)))*pr.height
	return PixelPoint{X: x, Y: y}
}
