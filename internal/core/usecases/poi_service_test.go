package usecases_test

import (
	"context"
	"testing"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// --- Mock POIRepository ---

type mockPOIRepo struct {
	createFn      func(ctx context.Context, poi *domain.POI) error
	listByTrailFn func(ctx context.Context, trailID string) ([]domain.POI, error)
	findNearbyFn  func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error)
}

func (m *mockPOIRepo) Create(ctx context.Context, poi *domain.POI) error {
	if m.createFn != nil {
		return m.createFn(ctx, poi)
	}
	return nil
}

func (m *mockPOIRepo) Update(ctx context.Context, poi *domain.POI) error        { return nil }
func (m *mockPOIRepo) Delete(ctx context.Context, id string) error              { return nil }
func (m *mockPOIRepo) UpsertBatch(ctx context.Context, pois []domain.POI) error { return nil }

func (m *mockPOIRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	return &domain.POI{ID: id, Name: "Test POI"}, nil
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

// --- Tests ---

func TestPOIService_Create(t *testing.T) {
	var saved *domain.POI
	repo := &mockPOIRepo{
		createFn: func(ctx context.Context, poi *domain.POI) error {
			saved = poi
			return nil
		},
	}

	svc := usecases.NewPOIService(repo, nil)
	poi, err := svc.Create(context.Background(), &domain.POI{
		Name:     "Fontaine Saint-Michel",
		TrailID:  "t-1",
		Kind:     "monument",
		Location: geo.GeoPoint{Lat: 48.8534, Lon: 2.3438},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("repo was not called")
	}
	if poi.Name != "Fontaine Saint-Michel" {
		t.Errorf("unexpected name %s", poi.Name)
	}
}

func TestPOIService_Create_RejectsMissingTrail(t *testing.T) {
	svc := usecases.NewPOIService(&mockPOIRepo{}, nil)
	_, err := svc.Create(context.Background(), &domain.POI{
		Name:     "Orphan",
		Location: geo.GeoPoint{Lat: 48.85, Lon: 2.35},
	})
	if err == nil {
		t.Error("expected error for missing trail_id")
	}
}

func TestPOIService_Create_RejectsOutOfRangeLocation(t *testing.T) {
	svc := usecases.NewPOIService(&mockPOIRepo{}, nil)
	_, err := svc.Create(context.Background(), &domain.POI{
		Name:     "Nowhere",
		TrailID:  "t-1",
		Location: geo.GeoPoint{Lat: 48.85, Lon: 181},
	})
	if err == nil {
		t.Error("expected error for out-of-range longitude")
	}
}

func TestPOIService_FindNearby(t *testing.T) {
	repo := &mockPOIRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
			return []domain.POI{
				{ID: "1", Name: "Notre-Dame", Location: geo.GeoPoint{Lat: 48.8530, Lon: 2.3499}},
				{ID: "2", Name: "Sainte-Chapelle", Location: geo.GeoPoint{Lat: 48.8554, Lon: 2.3451}},
			}, nil
		},
	}

	svc := usecases.NewPOIService(repo, nil)
	pois, err := svc.FindNearby(context.Background(), 48.8530, 2.3499, 500, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pois) != 2 {
		t.Fatalf("expected 2 pois, got %d", len(pois))
	}
	if pois[0].Name != "Notre-Dame" {
		t.Errorf("expected Notre-Dame, got %s", pois[0].Name)
	}
}

func TestPOIService_FindNearby_ClampLimit(t *testing.T) {
	called := false
	repo := &mockPOIRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
			called = true
			if limit != 50 {
				t.Errorf("expected limit clamped to 50, got %d", limit)
			}
			return nil, nil
		},
	}

	svc := usecases.NewPOIService(repo, nil)
	_, _ = svc.FindNearby(context.Background(), 48.85, 2.35, 500, 999)
	if !called {
		t.Error("repo was not called")
	}
}

func TestPOIService_ListByTrail(t *testing.T) {
	repo := &mockPOIRepo{
		listByTrailFn: func(ctx context.Context, trailID string) ([]domain.POI, error) {
			if trailID != "t-1" {
				t.Errorf("expected trail t-1, got %s", trailID)
			}
			return []domain.POI{
				{ID: "1", Position: 0},
				{ID: "2", Position: 1},
			}, nil
		},
	}

	svc := usecases.NewPOIService(repo, nil)
	pois, err := svc.ListByTrail(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pois) != 2 {
		t.Fatalf("expected 2 pois, got %d", len(pois))
	}
}
