package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "TRAIL_EVENTS",
			Subjects:  []string{"chasse.trail.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "HUNT_EVENTS",
			Subjects:  []string{"chasse.hunt.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "EDITOR_EVENTS",
			Subjects:  []string{"chasse.editor.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.MemoryStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishTrailUpdated(ctx context.Context, trail *domain.Trail) error {
	data, err := json.Marshal(trail)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("chasse.trail.updated."+trail.ID, data)
	return err
}

func (p *Publisher) PublishTrailPublished(ctx context.Context, trailID string) error {
	_, err := p.js.Publish("chasse.trail.published", []byte(trailID))
	return err
}

func (p *Publisher) PublishScoreRecorded(ctx context.Context, entry *domain.ScoreEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("chasse.hunt.score."+entry.UserID, data)
	return err
}

// PublishEditorEvent fans an editing-session snapshot out to live
// watchers. Sessions are ephemeral, so the stream keeps them in memory.
func (p *Publisher) PublishEditorEvent(ctx context.Context, sessionID string, data []byte) error {
	_, err := p.js.Publish("chasse.editor."+sessionID, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
