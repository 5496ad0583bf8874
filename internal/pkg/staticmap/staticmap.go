// Package staticmap renders a trail preview as a standalone SVG: the path
// polyline plus colored markers for the start, end, and points of
// interest, fitted to the requested canvas.
package staticmap

import (
	"fmt"
	"strings"

	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// Style is the immutable marker and path styling used by Render. Pass a
// value per call; there is no process-wide mutable styling.
type Style struct {
	Background  string
	PathColor   string
	PathWidth   float64
	StartColor  string
	EndColor    string
	POIColor    string
	MarkerR     float64
	LabelSize   int
	ShowLabels  bool
	PaddingFrac float64
}

// DefaultStyle matches the admin dashboard's map colors.
func DefaultStyle() Style {
	return Style{
		Background:  "#f4f1ea",
		PathColor:   "#2f6fde",
		PathWidth:   2.5,
		StartColor:  "#2e9e44",
		EndColor:    "#d63b3b",
		POIColor:    "#e8a13c",
		MarkerR:     5,
		LabelSize:   11,
		ShowLabels:  true,
		PaddingFrac: geo.DefaultPadding,
	}
}

// Render produces the SVG document. markers carry the start/end/POI
// points; path is the trail polyline (may be empty). When no geometry at
// all is supplied the preview degrades to an empty-state placeholder
// instead of failing.
func Render(markers []geo.LabeledPoint, path []geo.GeoPoint, width, height int, style Style) string {
	all := make([]geo.GeoPoint, 0, len(markers)+len(path))
	for _, m := range markers {
		all = append(all, m.GeoPoint)
	}
	all = append(all, path...)

	bounds, err := geo.ComputeBounds(all)
	if err != nil {
		return emptySVG(width, height, style)
	}
	pr := geo.NewProjector(bounds, width, height, style.PaddingFrac)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, width, height, style.Background)

	if len(path) > 1 {
		b.WriteString(`<polyline points="`)
		for i, p := range path {
			px := pr.Project(p)
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.1f,%.1f", px.X, px.Y)
		}
		fmt.Fprintf(&b, `" fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round"/>`,
			style.PathColor, style.PathWidth)
	}

	for _, m := range markers {
		px := pr.Project(m.GeoPoint)
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`,
			px.X, px.Y, style.MarkerR, markerColor(m.Kind, style))
		if style.ShowLabels && m.Label != "" {
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="%d" font-family="sans-serif">%s</text>`,
				px.X+style.MarkerR+2, px.Y+4, style.LabelSize, escapeText(m.Label))
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func markerColor(kind geo.PointKind, style Style) string {
	switch kind {
	case geo.KindStart:
		return style.StartColor
	case geo.KindEnd:
		return style.EndColor
	default:
		return style.POIColor
	}
}

func emptySVG(width, height int, style Style) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
			`<rect width="%d" height="%d" fill="%s"/>`+
			`<text x="%d" y="%d" font-size="13" font-family="sans-serif" text-anchor="middle" fill="#888">no geometry</text>`+
			`</svg>`,
		width, height, width, height, style.Background, width/2, height/2)
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
