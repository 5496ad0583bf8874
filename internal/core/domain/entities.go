package domain

import (
	"time"

	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// Trail is a guided historical walking route ("parcours") through a city.
type Trail struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Theme       string          `json:"theme,omitempty"`
	Start       geo.GeoPoint    `json:"start"`
	End         *geo.GeoPoint   `json:"end,omitempty"`
	Path        *geo.LineString `json:"path,omitempty"`
	DistanceKm  float64         `json:"distance_km"`
	Published   bool            `json:"published"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MapPoints flattens everything a map render needs: the mandatory start,
// optional end, and each POI, labeled for marker styling.
func (t *Trail) MapPoints(pois []POI) []geo.LabeledPoint {
	points := []geo.LabeledPoint{
		{GeoPoint: t.Start, Label: t.Name, Kind: geo.KindStart},
	}
	if t.End != nil {
		points = append(points, geo.LabeledPoint{GeoPoint: *t.End, Kind: geo.KindEnd})
	}
	for _, p := range pois {
		points = append(points, geo.LabeledPoint{GeoPoint: p.Location, Label: p.Name, Kind: geo.KindPOI})
	}
	return points
}

// PathPoints decodes the persisted path, degrading to nil on malformed or
// missing geometry so renderers can show an empty map instead of failing.
func (t *Trail) PathPoints() []geo.GeoPoint {
	if t.Path == nil {
		return nil
	}
	points, err := t.Path.Points()
	if err != nil {
		return nil
	}
	return points
}

// POI is a point of interest attached to a trail: a monument, plaque,
// viewpoint, or treasure-hunt step location.
type POI struct {
	ID          string         `json:"id"`
	TrailID     string         `json:"trail_id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind,omitempty"` // monument, museum, viewpoint, cache
	Description string         `json:"description,omitempty"`
	Location    geo.GeoPoint   `json:"location"`
	MediaURL    string         `json:"media_url,omitempty"`
	Position    int            `json:"position"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Distance    *float64       `json:"distance,omitempty"` // computed field
	CreatedAt   time.Time      `json:"created_at"`
}

// Quiz is a multiple-choice question shown when a player reaches a POI.
type Quiz struct {
	ID        string    `json:"id"`
	POIID     string    `json:"poi_id"`
	Question  string    `json:"question"`
	Choices   []string  `json:"choices"`
	Answer    int       `json:"answer"` // index into Choices
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Hunt is a treasure hunt layered on a trail.
type Hunt struct {
	ID        string     `json:"id"`
	TrailID   string     `json:"trail_id"`
	Name      string     `json:"name"`
	Clue      string     `json:"clue,omitempty"`
	Prize     string     `json:"prize,omitempty"`
	Active    bool       `json:"active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Badge is an achievement players can earn.
type Badge struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	IconURL     string         `json:"icon_url,omitempty"`
	Criteria    map[string]any `json:"criteria,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	Points          int       `json:"points"`
	TrailsCompleted int       `json:"trails_completed"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EditorSession is a server-held route-editing session, usually bound to
// the trail being edited.
type EditorSession struct {
	ID         string         `json:"id"`
	TrailID    string         `json:"trail_id,omitempty"`
	Waypoints  []geo.GeoPoint `json:"waypoints"`
	DistanceKm float64        `json:"distance_km"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
