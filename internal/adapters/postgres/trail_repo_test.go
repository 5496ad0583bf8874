package postgres

import (
	"database/sql"
	"testing"
	"time"
)

// stubRow feeds canned column values through the rowScanner interface,
// in trailColumns order.
type stubRow struct {
	vals []any
}

func (r stubRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case *float64:
			*p = r.vals[i].(float64)
		case *bool:
			*p = r.vals[i].(bool)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		case *sql.NullFloat64:
			if v, ok := r.vals[i].(float64); ok {
				*p = sql.NullFloat64{Float64: v, Valid: true}
			}
		case *sql.NullString:
			if v, ok := r.vals[i].(string); ok {
				*p = sql.NullString{String: v, Valid: true}
			}
		}
	}
	return nil
}

func trailRow(pathJSON any) stubRow {
	now := time.Now()
	return stubRow{vals: []any{
		"t-1", "paris-rive-gauche", "Rive Gauche", "", "",
		48.8606, 2.3376, // start
		48.8462, 2.3464, // end
		pathJSON,
		3.2, true, now, now,
	}}
}

func TestScanTrail_DecodesStoredPath(t *testing.T) {
	row := trailRow(`{"type":"LineString","coordinates":[[2.3376,48.8606],[2.3499,48.8530],[2.3464,48.8462]]}`)

	trail, err := scanTrail(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trail.Path == nil {
		t.Fatal("expected decoded path")
	}
	if len(trail.Path.Coordinates) != 3 {
		t.Fatalf("expected 3 coordinates, got %d", len(trail.Path.Coordinates))
	}
	points, err := trail.Path.Points()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].Lat != 48.8606 || points[0].Lon != 2.3376 {
		t.Errorf("coordinate order lost: %+v", points[0])
	}
	if trail.End == nil || trail.End.Lat != 48.8462 {
		t.Errorf("end point not scanned: %+v", trail.End)
	}
}

func TestScanTrail_MalformedPathDegradesToNil(t *testing.T) {
	row := trailRow(`{"type":"Point","coordinates":[2.35,48.85]}`)

	trail, err := scanTrail(row)
	if err != nil {
		t.Fatalf("a bad path must not fail the row read: %v", err)
	}
	if trail.Path != nil {
		t.Errorf("expected nil path for non-LineString geometry, got %+v", trail.Path)
	}
	if trail.Name != "Rive Gauche" {
		t.Errorf("rest of the row should survive, got name %q", trail.Name)
	}
}

func TestScanTrail_NullEndAndPath(t *testing.T) {
	now := time.Now()
	row := stubRow{vals: []any{
		"t-2", "solo", "Solo", "", "",
		48.85, 2.35,
		nil, nil, // no end point
		nil, // no path
		0.0, false, now, now,
	}}

	trail, err := scanTrail(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trail.End != nil {
		t.Errorf("expected nil end, got %+v", trail.End)
	}
	if trail.Path != nil {
		t.Errorf("expected nil path, got %+v", trail.Path)
	}
}
