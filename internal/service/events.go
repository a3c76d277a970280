package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/middleware"
)

// EventResponseSubmitted is published after a response has been stored.
const EventResponseSubmitted = "responses.submitted"

// EventPublisher hands domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

type surveyEvent struct {
	Event         string      `json:"event"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Payload       interface{} `json:"payload"`
	SentAt        time.Time   `json:"sent_at"`
}

// ResponseSubmittedPayload describes a stored response on the broker.
type ResponseSubmittedPayload struct {
	ResponseID string    `json:"response_id"`
	SurveyID   string    `json:"survey_id"`
	UserID     string    `json:"user_id"`
	StudentID  string    `json:"student_id"`
	Resolved   bool      `json:"student_resolved"`
	Submitted  time.Time `json:"submitted_at"`
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewNATSEventPublisher publishes events on "<channel>.<event>". A nil connection disables publishing.
func NewNATSEventPublisher(conn *nats.Conn, channelBase string, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:    conn,
		subject: strings.ReplaceAll(strings.TrimSpace(channelBase), ":", "."),
		logger:  logger.With().Str("component", "event_publisher").Logger(),
		now:     time.Now,
	}
}

func (p *natsEventPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	if p == nil || p.conn == nil {
		return nil
	}

	data, err := json.Marshal(surveyEvent{
		Event:         event,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		Payload:       payload,
		SentAt:        p.now().UTC(),
	})
	if err != nil {
		return err
	}

	subject := eventSubject(p.subject, event)
	if err := p.conn.Publish(subject, data); err != nil {
		return err
	}
	p.logger.Debug().Str("subject", subject).Msg("event published")
	return nil
}

func eventSubject(base, event string) string {
	if base == "" {
		return event
	}
	return base + "." + event
}
