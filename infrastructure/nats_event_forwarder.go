package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/events"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// SubjectPrefix is the root of every forwarded event subject
const SubjectPrefix = "beardless.events"

const sourceService = "beardless-bot"

// MessagePublisher sends raw bytes to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps a committed event for consumers outside the bot
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventForwarder relays events from the in-process bus to NATS
type NATSEventForwarder struct {
	publisher MessagePublisher
	timeout   time.Duration
	now       func() time.Time
}

// NewNATSEventForwarder creates a new forwarder
func NewNATSEventForwarder(publisher MessagePublisher) *NATSEventForwarder {
	return &NATSEventForwarder{
		publisher: publisher,
		timeout:   5 * time.Second,
		now:       time.Now,
	}
}

// Attach subscribes the forwarder to every event type on the bus
func (f *NATSEventForwarder) Attach(bus *events.Bus) {
	bus.SubscribeAll(f.handle)
}

// SubjectFor maps an event type to its NATS subject
func SubjectFor(eventType events.EventType) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, eventType)
}

func (f *NATSEventForwarder) handle(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.Forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event to NATS")
	}
}

// Forward publishes a single event envelope
func (f *NATSEventForwarder) Forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := SubjectFor(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		// Without a stream nobody is listening, which is not a failure
		if errors.Is(err, nats.ErrNoResponders) || errors.Is(err, nats.ErrNoStreamResponse) {
			log.WithField("subject", subject).Debug("No stream bound to event subject")
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
	return nil
}
