package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// ReleaseEvent is the payload published for release lifecycle changes so
// downstream consumers (notifications, roster sync) can react.
type ReleaseEvent struct {
	Action     string    `json:"action"`
	ReleaseID  uint      `json:"release_id,omitempty"`
	ReleaseIDs []uint    `json:"release_ids,omitempty"`
	StudentID  uint      `json:"student_id,omitempty"`
	TestID     uint      `json:"test_id,omitempty"`
	ActorID    uint      `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher emits release lifecycle events.
type EventPublisher interface {
	Publish(event ReleaseEvent)
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher builds a NATS-backed publisher. A nil connection or
// empty subject yields a no-op publisher, keeping the broker optional.
func NewEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "release_events").Logger(),
	}
}

// Publish is fire-and-forget: event delivery never blocks or fails the
// release operation that triggered it.
func (p *natsEventPublisher) Publish(event ReleaseEvent) {
	if p.conn == nil || p.subject == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode release event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("action", event.Action).Msg("failed to publish release event")
	}
}
