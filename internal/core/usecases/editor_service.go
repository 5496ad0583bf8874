package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/ports"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// ErrSessionNotFound is returned for unknown or expired editor sessions.
var ErrSessionNotFound = fmt.Errorf("editor session not found")

// sessionTTL is how long an idle editing session survives before the
// sweeper reclaims it.
const sessionTTL = 2 * time.Hour

type editorSession struct {
	id        string
	trailID   string
	editor    *geo.RouteEditor
	createdAt time.Time
	updatedAt time.Time
}

// EditorService holds the live route-editing sessions. Each session's
// waypoint list is single-owner state mutated by discrete admin clicks;
// the mutex only guards the session map and snapshots against concurrent
// HTTP handlers.
type EditorService struct {
	mu        sync.RWMutex
	sessions  map[string]*editorSession
	trails    *TrailService
	publisher ports.EventPublisher
}

// NewEditorService creates an EditorService and starts the idle-session
// sweeper, which runs until ctx is canceled.
func NewEditorService(ctx context.Context, trails *TrailService, publisher ports.EventPublisher) *EditorService {
	s := &EditorService{
		sessions:  make(map[string]*editorSession),
		trails:    trails,
		publisher: publisher,
	}
	go s.sweep(ctx)
	return s
}

// Create opens a new editing session. When trailID is set and the trail
// already has a path, the editor is seeded from it (edit mode).
func (s *EditorService) Create(ctx context.Context, trailID string) (*domain.EditorSession, error) {
	editor := geo.NewRouteEditor()

	if trailID != "" {
		trail, err := s.trails.GetByID(ctx, trailID)
		if err != nil {
			return nil, fmt.Errorf("editor session for trail %s: %w", trailID, err)
		}
		if trail.Path != nil {
			seeded, err := geo.NewRouteEditorFromLineString(*trail.Path)
			if err != nil {
				// Malformed stored geometry: start from scratch rather
				// than refusing to open the editor.
				slog.Warn("stored path unreadable, starting empty", "trail_id", trailID, "error", err)
			} else {
				editor = seeded
			}
		}
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &editorSession{
		id:        id,
		trailID:   trailID,
		editor:    editor,
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return snapshot(sess), nil
}

// Get returns the current state of a session.
func (s *EditorService) Get(ctx context.Context, id string) (*domain.EditorSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// Click handles a map click: append a waypoint, or remove the first
// existing waypoint within the click tolerance.
func (s *EditorService) Click(ctx context.Context, id string, lat, lon float64) (*domain.EditorSession, error) {
	return s.mutate(ctx, id, func(e *geo.RouteEditor) {
		e.AddOrRemove(lat, lon)
	})
}

// Undo drops the most recently added waypoint. No-op when empty.
func (s *EditorService) Undo(ctx context.Context, id string) (*domain.EditorSession, error) {
	return s.mutate(ctx, id, func(e *geo.RouteEditor) {
		e.UndoLast()
	})
}

// Clear resets the session to an empty waypoint list.
func (s *EditorService) Clear(ctx context.Context, id string) (*domain.EditorSession, error) {
	return s.mutate(ctx, id, func(e *geo.RouteEditor) {
		e.ClearAll()
	})
}

// Commit snapshots the session into its trail's path, persists it, and
// closes the session. Sessions without a trail just return the geometry.
func (s *EditorService) Commit(ctx context.Context, id string) (*domain.Trail, geo.LineString, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return nil, geo.LineString{}, ErrSessionNotFound
	}

	line := sess.editor.ToLineString()
	if sess.trailID == "" {
		return nil, line, nil
	}

	trail, err := s.trails.SavePath(ctx, sess.trailID, line)
	if err != nil {
		// Put the session back so the admin's work isn't lost.
		s.mu.Lock()
		s.sessions[id] = sess
		s.mu.Unlock()
		return nil, geo.LineString{}, err
	}
	return trail, line, nil
}

// Close discards a session without persisting anything.
func (s *EditorService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Count returns the number of live sessions (metrics).
func (s *EditorService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *EditorService) mutate(ctx context.Context, id string, fn func(*geo.RouteEditor)) (*domain.EditorSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	fn(sess.editor)
	sess.updatedAt = time.Now()
	snap := snapshot(sess)
	s.mu.Unlock()

	// Best-effort live broadcast for anyone watching the session.
	if s.publisher != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.publisher.PublishEditorEvent(ctx, id, data); err != nil {
				slog.Debug("editor broadcast failed", "session_id", id, "error", err)
			}
		}
	}
	return snap, nil
}

// sweep reclaims sessions idle beyond sessionTTL.
func (s *EditorService) sweep(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-sessionTTL)
			s.mu.Lock()
			for id, sess := range s.sessions {
				if sess.updatedAt.Before(cutoff) {
					delete(s.sessions, id)
					slog.Info("editor session expired", "session_id", id, "trail_id", sess.trailID)
				}
			}
			s.mu.Unlock()
		}
	}
}

func snapshot(sess *editorSession) *domain.EditorSession {
	return &domain.EditorSession{
		ID:         sess.id,
		TrailID:    sess.trailID,
		Waypoints:  sess.editor.Waypoints(),
		DistanceKm: sess.editor.TotalDistanceKm(),
		CreatedAt:  sess.createdAt,
		UpdatedAt:  sess.updatedAt,
	}
}

func generateSessionID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "es-" + hex.EncodeToString(b), nil
}
