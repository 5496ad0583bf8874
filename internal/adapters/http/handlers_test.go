package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/adelinebrd/chasse/internal/adapters/http"
	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// ---- Mock repositories ----

type mockTrailRepo struct {
	createFn       func(ctx context.Context, t *domain.Trail) error
	updateFn       func(ctx context.Context, t *domain.Trail) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Trail, error)
	getBySlugFn    func(ctx context.Context, slug string) (*domain.Trail, error)
	listFn         func(ctx context.Context) ([]domain.Trail, error)
	setPublishedFn func(ctx context.Context, id string, published bool) error
}

func (m *mockTrailRepo) Create(ctx context.Context, t *domain.Trail) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}
func (m *mockTrailRepo) Update(ctx context.Context, t *domain.Trail) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, t)
	}
	return nil
}
func (m *mockTrailRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockTrailRepo) GetByID(ctx context.Context, id string) (*domain.Trail, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockTrailRepo) GetBySlug(ctx context.Context, slug string) (*domain.Trail, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, nil
}
func (m *mockTrailRepo) List(ctx context.Context) ([]domain.Trail, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockTrailRepo) SetPublished(ctx context.Context, id string, published bool) error {
	if m.setPublishedFn != nil {
		return m.setPublishedFn(ctx, id, published)
	}
	return nil
}

type mockPOIRepo struct {
	listByTrailFn func(ctx context.Context, trailID string) ([]domain.POI, error)
	findNearbyFn  func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error)
}

func (m *mockPOIRepo) Create(ctx context.Context, p *domain.POI) error        { return nil }
func (m *mockPOIRepo) Update(ctx context.Context, p *domain.POI) error        { return nil }
func (m *mockPOIRepo) Delete(ctx context.Context, id string) error            { return nil }
func (m *mockPOIRepo) UpsertBatch(ctx context.Context, p []domain.POI) error  { return nil }
func (m *mockPOIRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	return nil, nil
}
func (m *mockPOIRepo) ListByTrail(ctx context.Context, trailID string) ([]domain.POI, error) {
	if m.listByTrailFn != nil {
		return m.listByTrailFn(ctx, trailID)
	}
	return nil, nil
}
func (m *mockPOIRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}

type mockQuizRepo struct{}

func (m *mockQuizRepo) Create(ctx context.Context, q *domain.Quiz) error { return nil }
func (m *mockQuizRepo) Update(ctx context.Context, q *domain.Quiz) error { return nil }
func (m *mockQuizRepo) Delete(ctx context.Context, id string) error      { return nil }
func (m *mockQuizRepo) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	return nil, nil
}
func (m *mockQuizRepo) ListByPOI(ctx context.Context, poiID string) ([]domain.Quiz, error) {
	return nil, nil
}

type mockHuntRepo struct {
	listActiveFn func(ctx context.Context) ([]domain.Hunt, error)
}

func (m *mockHuntRepo) Create(ctx context.Context, h *domain.Hunt) error { return nil }
func (m *mockHuntRepo) Update(ctx context.Context, h *domain.Hunt) error { return nil }
func (m *mockHuntRepo) Delete(ctx context.Context, id string) error      { return nil }
func (m *mockHuntRepo) GetByID(ctx context.Context, id string) (*domain.Hunt, error) {
	return nil, nil
}
func (m *mockHuntRepo) ListByTrail(ctx context.Context, trailID string) ([]domain.Hunt, error) {
	return nil, nil
}
func (m *mockHuntRepo) ListActive(ctx context.Context) ([]domain.Hunt, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

type mockBadgeRepo struct{}

func (m *mockBadgeRepo) Create(ctx context.Context, b *domain.Badge) error { return nil }
func (m *mockBadgeRepo) Delete(ctx context.Context, id string) error       { return nil }
func (m *mockBadgeRepo) GetBySlug(ctx context.Context, slug string) (*domain.Badge, error) {
	return nil, nil
}
func (m *mockBadgeRepo) List(ctx context.Context) ([]domain.Badge, error) { return nil, nil }

type mockScoreRepo struct {
	topFn func(ctx context.Context, limit int) ([]domain.ScoreEntry, error)
}

func (m *mockScoreRepo) UpsertScore(ctx context.Context, e *domain.ScoreEntry) error { return nil }
func (m *mockScoreRepo) Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if m.topFn != nil {
		return m.topFn(ctx, limit)
	}
	return nil, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	trails := usecases.NewTrailService(&mockTrailRepo{}, nil, nil)
	d := &handler.Dependencies{
		Trails:      trails,
		POIs:        usecases.NewPOIService(&mockPOIRepo{}, nil),
		Quizzes:     usecases.NewQuizService(&mockQuizRepo{}),
		Hunts:       usecases.NewHuntService(&mockHuntRepo{}),
		Badges:      usecases.NewBadgeService(&mockBadgeRepo{}),
		Leaderboard: usecases.NewLeaderboardService(&mockScoreRepo{}, nil, nil),
		Editor:      usecases.NewEditorService(context.Background(), trails, nil),
		Publish:     usecases.NewPublishService(trails, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func parisTrail(id string) *domain.Trail {
	path := geo.EncodeLineString([]geo.GeoPoint{
		{Lat: 48.8606, Lon: 2.3376},
		{Lat: 48.8530, Lon: 2.3499},
		{Lat: 48.8462, Lon: 2.3464},
	})
	end := geo.GeoPoint{Lat: 48.8462, Lon: 2.3464}
	return &domain.Trail{
		ID:    id,
		Slug:  "paris-rive-gauche",
		Name:  "Paris Rive Gauche",
		Start: geo.GeoPoint{Lat: 48.8606, Lon: 2.3376},
		End:   &end,
		Path:  &path,
	}
}

// ---- Trail handler tests ----

func TestListTrails_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			listFn: func(ctx context.Context) ([]domain.Trail, error) {
				return []domain.Trail{*parisTrail("t1"), *parisTrail("t2")}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Trail `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 trails, got %d", len(result.Data))
	}
}

func TestListTrails_Pagination(t *testing.T) {
	trails := make([]domain.Trail, 5)
	for i := range trails {
		trails[i] = *parisTrail(fmt.Sprintf("t%d", i))
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			listFn: func(ctx context.Context) ([]domain.Trail, error) { return trails, nil },
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Trail `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 trails in page, got %d", len(result.Data))
	}
	if result.Pagination.Offset != 2 {
		t.Errorf("expected offset 2, got %d", result.Pagination.Offset)
	}
}

func TestCreateTrail_RecomputesDistance(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{}, nil, nil)
	})
	app := setupApp(deps)

	body := `{
		"name": "Paris Rive Gauche",
		"start": {"lat": 48.8606, "lon": 2.3376},
		"path": {"type": "LineString", "coordinates": [[2.3376, 48.8606], [2.3499, 48.8530], [2.3464, 48.8462]]}
	}`
	req := httptest.NewRequest("POST", "/v1/trails", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, b)
	}

	var trail domain.Trail
	json.NewDecoder(resp.Body).Decode(&trail)
	if trail.DistanceKm <= 0 {
		t.Errorf("expected computed distance, got %f", trail.DistanceKm)
	}
	if trail.Slug != "paris-rive-gauche" {
		t.Errorf("expected generated slug, got %s", trail.Slug)
	}
}

func TestCreateTrail_AcceptsLng(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	// Older admin builds send lng instead of lon
	body := `{"name": "Montmartre", "start": {"lat": 48.8867, "lng": 2.3431}}`
	req := httptest.NewRequest("POST", "/v1/trails", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var trail domain.Trail
	json.NewDecoder(resp.Body).Decode(&trail)
	if trail.Start.Lon != 2.3431 {
		t.Errorf("expected lng mapped to lon, got %f", trail.Start.Lon)
	}
}

func TestCreateTrail_MissingStart(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/trails", strings.NewReader(`{"name": "No Start"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestCreateTrail_DuplicateSlug(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			createFn: func(ctx context.Context, trail *domain.Trail) error {
				return fmt.Errorf("%w: trails_slug_key", domain.ErrDuplicateSlug)
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	body := `{"name": "Paris Rive Gauche", "start": {"lat": 48.86, "lon": 2.34}}`
	req := httptest.NewRequest("POST", "/v1/trails", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "conflict" {
		t.Errorf("expected conflict code, got %s", apiErr.Code)
	}
}

func TestGetTrail_NotFound(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trail, error) {
				return nil, fmt.Errorf("not found")
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails/nonexistent-id", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetTrailBySlug_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			getBySlugFn: func(ctx context.Context, slug string) (*domain.Trail, error) {
				trail := parisTrail("t1")
				trail.Slug = slug
				return trail, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails/by-slug/paris-rive-gauche", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var trail domain.Trail
	json.NewDecoder(resp.Body).Decode(&trail)
	if trail.Slug != "paris-rive-gauche" {
		t.Errorf("expected slug paris-rive-gauche, got %s", trail.Slug)
	}
}

// ---- Bounds handler tests ----

func TestTrailBounds_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trail, error) {
				return parisTrail(id), nil
			},
		}, nil, nil)
		d.POIs = usecases.NewPOIService(&mockPOIRepo{
			listByTrailFn: func(ctx context.Context, trailID string) ([]domain.POI, error) {
				return []domain.POI{
					{ID: "p1", Name: "Notre-Dame", Location: geo.GeoPoint{Lat: 48.8530, Lon: 2.3499}},
				}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails/t1/bounds", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Bounds geo.Bounds   `json:"bounds"`
		Center geo.GeoPoint `json:"center"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Bounds.MinLat != 48.8462 || result.Bounds.MaxLat != 48.8606 {
		t.Errorf("wrong lat bounds: %f..%f", result.Bounds.MinLat, result.Bounds.MaxLat)
	}
	if !result.Bounds.Contains(result.Center) {
		t.Error("center should be inside bounds")
	}
}

// ---- Preview handler tests ----

func TestTrailPreview_RendersSVG(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trail, error) {
				return parisTrail(id), nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails/t1/preview.svg", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected image/svg+xml, got %s", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	svg := string(body)
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "polyline") {
		t.Errorf("expected SVG with path polyline, got %.100s", svg)
	}
}

func TestTrailPreview_BadDimensions(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trail, error) {
				return parisTrail(id), nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails/t1/preview.svg?width=9999", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- POI handler tests ----

func TestNearbyPOIs_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.POIs = usecases.NewPOIService(&mockPOIRepo{
			findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
				return []domain.POI{
					{ID: "p1", Name: "Notre-Dame", Location: geo.GeoPoint{Lat: 48.8530, Lon: 2.3499}},
				}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=48.853&lon=2.3499&radius=500", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var pois []domain.POI
	json.NewDecoder(resp.Body).Decode(&pois)
	if len(pois) != 1 {
		t.Errorf("expected 1 poi, got %d", len(pois))
	}
}

func TestNearbyPOIs_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/pois/nearby", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyPOIs_EquatorIsAValidPosition(t *testing.T) {
	var gotLat, gotLon float64 = -1, -1
	deps := makeDeps(func(d *handler.Dependencies) {
		d.POIs = usecases.NewPOIService(&mockPOIRepo{
			findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
				gotLat, gotLon = lat, lon
				return []domain.POI{}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=0&lon=0", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("lat=0&lon=0 is a real position, expected 200, got %d", resp.StatusCode)
	}
	if gotLat != 0 || gotLon != 0 {
		t.Errorf("expected search at (0, 0), got (%f, %f)", gotLat, gotLon)
	}
}

func TestNearbyPOIs_NonNumericCoordinates(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=abc&lon=2.35", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyPOIs_BadRadius(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=48.85&lon=2.35&radius=50000", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyPOIs_CacheControlHeader(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.POIs = usecases.NewPOIService(&mockPOIRepo{
			findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
				return []domain.POI{}, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/pois/nearby?lat=48.85&lon=2.35", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cc := resp.Header.Get("Cache-Control")
	if cc != "public, max-age=300" {
		t.Errorf("expected Cache-Control header, got %q", cc)
	}
}

// ---- Editor handler tests ----

func TestEditorSession_ClickUndoCommitFlow(t *testing.T) {
	var saved *domain.Trail
	deps := makeDeps(func(d *handler.Dependencies) {
		trails := usecases.NewTrailService(&mockTrailRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trail, error) {
				return &domain.Trail{ID: id, Name: "Draft", Start: geo.GeoPoint{Lat: 48.86, Lon: 2.34}}, nil
			},
			updateFn: func(ctx context.Context, trail *domain.Trail) error {
				saved = trail
				return nil
			},
		}, nil, nil)
		d.Trails = trails
		d.Editor = usecases.NewEditorService(context.Background(), trails, nil)
	})
	app := setupApp(deps)

	// Open a session bound to a trail
	req := httptest.NewRequest("POST", "/v1/editor/sessions", strings.NewReader(`{"trail_id":"t1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var sess domain.EditorSession
	json.NewDecoder(resp.Body).Decode(&sess)
	if sess.ID == "" {
		t.Fatal("expected session id")
	}

	// Two clicks, one undone
	click := func(body string) domain.EditorSession {
		req := httptest.NewRequest("POST", "/v1/editor/sessions/"+sess.ID+"/click", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != 200 {
			t.Fatalf("click: expected 200, got %d", resp.StatusCode)
		}
		var s domain.EditorSession
		json.NewDecoder(resp.Body).Decode(&s)
		return s
	}
	click(`{"lat": 48.8606, "lon": 2.3376}`)
	click(`{"lat": 48.8530, "lng": 2.3499}`) // lng accepted too
	s := click(`{"lat": 48.8462, "lon": 2.3464}`)
	if len(s.Waypoints) != 3 {
		t.Fatalf("expected 3 waypoints, got %d", len(s.Waypoints))
	}

	req = httptest.NewRequest("POST", "/v1/editor/sessions/"+sess.ID+"/undo", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("undo: expected 200, got %d", resp.StatusCode)
	}
	json.NewDecoder(resp.Body).Decode(&s)
	if len(s.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints after undo, got %d", len(s.Waypoints))
	}

	// Commit persists the geometry onto the trail
	req = httptest.NewRequest("POST", "/v1/editor/sessions/"+sess.ID+"/commit", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("commit: expected 200, got %d", resp.StatusCode)
	}
	if saved == nil || saved.Path == nil {
		t.Fatal("expected committed path persisted")
	}
	if len(saved.Path.Coordinates) != 2 {
		t.Errorf("expected 2 coordinates, got %d", len(saved.Path.Coordinates))
	}

	// Session gone after commit
	req = httptest.NewRequest("GET", "/v1/editor/sessions/"+sess.ID, nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 after commit, got %d", resp.StatusCode)
	}
}

func TestEditorClick_UnknownSession(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/editor/sessions/nope/click", strings.NewReader(`{"lat": 1, "lon": 2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestEditorClick_OutOfRange(t *testing.T) {
	deps := makeDeps()
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/editor/sessions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	var sess domain.EditorSession
	json.NewDecoder(resp.Body).Decode(&sess)

	req = httptest.NewRequest("POST", "/v1/editor/sessions/"+sess.ID+"/click", strings.NewReader(`{"lat": 91, "lon": 2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Publish handler tests ----

type mockWorkflowEngine struct {
	startFn func(ctx context.Context, trailID string) error
}

func (m *mockWorkflowEngine) StartTrailPublish(ctx context.Context, trailID string) error {
	if m.startFn != nil {
		return m.startFn(ctx, trailID)
	}
	return nil
}

func TestPublishTrail_Inline(t *testing.T) {
	var published bool
	deps := makeDeps(func(d *handler.Dependencies) {
		trails := usecases.NewTrailService(&mockTrailRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Trail, error) {
				return parisTrail(id), nil
			},
			setPublishedFn: func(ctx context.Context, id string, p bool) error {
				published = p
				return nil
			},
		}, nil, nil)
		d.Trails = trails
		d.Publish = usecases.NewPublishService(trails, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/trails/t1/publish", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !published {
		t.Error("expected trail marked published")
	}

	var trail domain.Trail
	json.NewDecoder(resp.Body).Decode(&trail)
	if !trail.Published {
		t.Error("expected published trail in response")
	}
}

func TestPublishTrail_Workflow(t *testing.T) {
	var started string
	deps := makeDeps(func(d *handler.Dependencies) {
		trails := usecases.NewTrailService(&mockTrailRepo{}, nil, nil)
		d.Publish = usecases.NewPublishService(trails, &mockWorkflowEngine{
			startFn: func(ctx context.Context, trailID string) error {
				started = trailID
				return nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/trails/t1/publish", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 202 {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if started != "t1" {
		t.Errorf("expected workflow started for t1, got %q", started)
	}
}

// ---- Leaderboard handler tests ----

func TestLeaderboard_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Leaderboard = usecases.NewLeaderboardService(&mockScoreRepo{
			topFn: func(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
				return []domain.ScoreEntry{
					{UserID: "u1", Username: "adeline", Points: 420},
				}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/leaderboard", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var entries []domain.ScoreEntry
	json.NewDecoder(resp.Body).Decode(&entries)
	if len(entries) != 1 || entries[0].Username != "adeline" {
		t.Errorf("unexpected leaderboard: %+v", entries)
	}
}

// ---- Hunt handler tests ----

func TestActiveHunts_Success(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Hunts = usecases.NewHuntService(&mockHuntRepo{
			listActiveFn: func(ctx context.Context) ([]domain.Hunt, error) {
				return []domain.Hunt{{ID: "h1", Name: "Trésor du Marais", Active: true}}, nil
			},
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/hunts/active", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var hunts []domain.Hunt
	json.NewDecoder(resp.Body).Decode(&hunts)
	if len(hunts) != 1 {
		t.Errorf("expected 1 hunt, got %d", len(hunts))
	}
}

// ---- Health handler tests ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_NoDB(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	// With nil DB, ready should return 503
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

// ---- X-API-Version header ----

func TestWebSocket_UnavailableWithoutNATS(t *testing.T) {
	// makeDeps leaves NATS nil; the relay route must refuse cleanly
	// instead of upgrading onto a dead connection.
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/ws", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	v := resp.Header.Get("X-API-Version")
	if v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

// ---- Link header on pagination ----

func TestListTrails_LinkHeader(t *testing.T) {
	trails := make([]domain.Trail, 10)
	for i := range trails {
		trails[i] = *parisTrail(fmt.Sprintf("t%d", i))
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			listFn: func(ctx context.Context) ([]domain.Trail, error) { return trails, nil },
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/trails?offset=0&limit=3", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	link := resp.Header.Get("Link")
	if link == "" {
		t.Fatal("expected Link header, got empty")
	}
	if !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %s", link)
	}
	if !strings.Contains(link, `rel="first"`) {
		t.Errorf("expected first link, got %s", link)
	}
	if !strings.Contains(link, `rel="last"`) {
		t.Errorf("expected last link, got %s", link)
	}
}

// ---- GraphQL tests ----

func TestGraphQL_Trails(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Trails = usecases.NewTrailService(&mockTrailRepo{
			listFn: func(ctx context.Context) ([]domain.Trail, error) {
				return []domain.Trail{*parisTrail("t1")}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	body := `{"query": "{ trails { id name distance_km } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Trails []struct {
				Name string `json:"name"`
			} `json:"trails"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	if len(result.Data.Trails) != 1 || result.Data.Trails[0].Name != "Paris Rive Gauche" {
		t.Errorf("unexpected trails: %+v", result.Data.Trails)
	}
}
