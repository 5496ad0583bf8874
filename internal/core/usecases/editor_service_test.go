package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

func newEditorService(t *testing.T, repo *mockTrailRepo) *usecases.EditorService {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	trails := usecases.NewTrailService(repo, nil, nil)
	return usecases.NewEditorService(ctx, trails, nil)
}

func TestEditorService_ClickAddsWaypoints(t *testing.T) {
	svc := newEditorService(t, &mockTrailRepo{})

	sess, err := svc.Create(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Waypoints) != 0 {
		t.Fatalf("new session should be empty, got %d waypoints", len(sess.Waypoints))
	}

	sess, err = svc.Click(context.Background(), sess.ID, 48.8566, 2.3522)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess, err = svc.Click(context.Background(), sess.ID, 48.8606, 2.3376)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(sess.Waypoints))
	}
	if sess.DistanceKm <= 0 {
		t.Errorf("expected positive distance, got %f", sess.DistanceKm)
	}
}

func TestEditorService_ClickNearExistingRemoves(t *testing.T) {
	svc := newEditorService(t, &mockTrailRepo{})
	sess, _ := svc.Create(context.Background(), "")

	_, _ = svc.Click(context.Background(), sess.ID, 48.8566, 2.3522)
	sess, err := svc.Click(context.Background(), sess.ID, 48.8567, 2.3523)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Waypoints) != 0 {
		t.Fatalf("near-duplicate click should remove, got %d waypoints", len(sess.Waypoints))
	}
}

func TestEditorService_UndoAndClear(t *testing.T) {
	svc := newEditorService(t, &mockTrailRepo{})
	sess, _ := svc.Create(context.Background(), "")

	_, _ = svc.Click(context.Background(), sess.ID, 48.8566, 2.3522)
	_, _ = svc.Click(context.Background(), sess.ID, 48.8606, 2.3376)

	sess, err := svc.Undo(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Waypoints) != 1 {
		t.Fatalf("expected 1 waypoint after undo, got %d", len(sess.Waypoints))
	}

	// Undo on a session drained to empty stays a no-op.
	sess, _ = svc.Undo(context.Background(), sess.ID)
	sess, err = svc.Undo(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Waypoints) != 0 {
		t.Fatalf("expected empty session, got %d waypoints", len(sess.Waypoints))
	}

	_, _ = svc.Click(context.Background(), sess.ID, 48.8566, 2.3522)
	sess, err = svc.Clear(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Waypoints) != 0 {
		t.Fatalf("expected cleared session, got %d waypoints", len(sess.Waypoints))
	}
}

func TestEditorService_UnknownSession(t *testing.T) {
	svc := newEditorService(t, &mockTrailRepo{})
	_, err := svc.Click(context.Background(), "nope", 48.85, 2.35)
	if !errors.Is(err, usecases.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestEditorService_SeedsFromTrailPath(t *testing.T) {
	path := parisPath()
	repo := &mockTrailRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Trail, error) {
			return &domain.Trail{
				ID:    id,
				Name:  "Rive Gauche",
				Start: geo.GeoPoint{Lat: 48.8606, Lon: 2.3376},
				Path:  &path,
			}, nil
		},
	}
	svc := newEditorService(t, repo)

	sess, err := svc.Create(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Waypoints) != 3 {
		t.Fatalf("expected session seeded with 3 waypoints, got %d", len(sess.Waypoints))
	}
	if sess.TrailID != "t-1" {
		t.Errorf("expected trail t-1, got %s", sess.TrailID)
	}
}

func TestEditorService_CommitPersistsPath(t *testing.T) {
	var updated *domain.Trail
	repo := &mockTrailRepo{
		updateFn: func(ctx context.Context, trail *domain.Trail) error {
			updated = trail
			return nil
		},
	}
	svc := newEditorService(t, repo)

	sess, _ := svc.Create(context.Background(), "t-1")
	_, _ = svc.Click(context.Background(), sess.ID, 48.8566, 2.3522)
	_, _ = svc.Click(context.Background(), sess.ID, 48.8606, 2.3376)

	trail, line, err := svc.Commit(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatal("trail was not persisted")
	}
	if len(line.Coordinates) != 2 {
		t.Fatalf("expected 2 committed coordinates, got %d", len(line.Coordinates))
	}
	if trail.DistanceKm <= 0 {
		t.Errorf("expected recomputed distance, got %f", trail.DistanceKm)
	}

	// Session is gone after a successful commit.
	if _, err := svc.Get(context.Background(), sess.ID); !errors.Is(err, usecases.ErrSessionNotFound) {
		t.Errorf("expected session removed after commit, got %v", err)
	}
}

func TestEditorService_CommitFailureKeepsSession(t *testing.T) {
	repo := &mockTrailRepo{
		updateFn: func(ctx context.Context, trail *domain.Trail) error {
			return errors.New("db down")
		},
	}
	svc := newEditorService(t, repo)

	sess, _ := svc.Create(context.Background(), "t-1")
	_, _ = svc.Click(context.Background(), sess.ID, 48.8566, 2.3522)

	if _, _, err := svc.Commit(context.Background(), sess.ID); err == nil {
		t.Fatal("expected commit error")
	}

	// The admin's work must survive a failed commit.
	got, err := svc.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("session should still exist: %v", err)
	}
	if len(got.Waypoints) != 1 {
		t.Fatalf("expected 1 preserved waypoint, got %d", len(got.Waypoints))
	}
}

func TestEditorService_BroadcastsOnMutation(t *testing.T) {
	events := 0
	pub := &mockPublisher{
		editorEventFn: func(ctx context.Context, sessionID string, payload []byte) error {
			events++
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	trails := usecases.NewTrailService(&mockTrailRepo{}, nil, nil)
	svc := usecases.NewEditorService(ctx, trails, pub)

	sess, _ := svc.Create(context.Background(), "")
	_, _ = svc.Click(context.Background(), sess.ID, 48.8566, 2.3522)
	_, _ = svc.Undo(context.Background(), sess.ID)

	if events != 2 {
		t.Errorf("expected 2 editor events, got %d", events)
	}
}
