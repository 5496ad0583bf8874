package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber sharing a NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribeTrailEvents(ctx context.Context, handler func(ctx context.Context, trail *domain.Trail) error) error {
	sub, err := s.js.Subscribe("chasse.trail.updated.>", func(msg *nats.Msg) {
		var trail domain.Trail
		if err := json.Unmarshal(msg.Data, &trail); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &trail); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("trail-processor"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeScoreEvents(ctx context.Context, handler func(ctx context.Context, entry *domain.ScoreEntry) error) error {
	sub, err := s.js.Subscribe("chasse.hunt.score.>", func(msg *nats.Msg) {
		var entry domain.ScoreEntry
		if err := json.Unmarshal(msg.Data, &entry); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &entry); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("score-processor"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
