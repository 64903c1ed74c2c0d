package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/events"
	"github.com/LevBernstein/BeardlessBot-sub000/models"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

// recordingPublisher captures published messages
type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "beardless.events.balance_change", SubjectFor(events.EventTypeBalanceChange))
	assert.Equal(t, "beardless.events.game_resolved", SubjectFor(events.EventTypeGameResolved))
}

func TestNATSEventForwarder_Forward(t *testing.T) {
	publisher := &recordingPublisher{}
	forwarder := NewNATSEventForwarder(publisher)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	forwarder.now = func() time.Time { return fixed }

	event := events.BalanceChangeEvent{
		UserID:          42,
		OldBalance:      300,
		NewBalance:      310,
		TransactionType: models.TransactionTypeCoinFlipWin,
		ChangeAmount:    10,
	}

	require.NoError(t, forwarder.Forward(context.Background(), event))
	require.Len(t, publisher.messages, 1)

	msg := publisher.messages[0]
	assert.Equal(t, "beardless.events.balance_change", msg.subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.data, &envelope))
	assert.Equal(t, "balance_change", envelope.EventType)
	assert.Equal(t, "beardless-bot", envelope.SourceService)
	assert.True(t, fixed.Equal(envelope.Timestamp))
	_, err := uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.BalanceChangeEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
}

func TestNATSEventForwarder_UniqueEventIDs(t *testing.T) {
	publisher := &recordingPublisher{}
	forwarder := NewNATSEventForwarder(publisher)

	event := events.AccountCreatedEvent{DiscordID: 1, Username: "a", InitialBalance: 300}
	require.NoError(t, forwarder.Forward(context.Background(), event))
	require.NoError(t, forwarder.Forward(context.Background(), event))

	var first, second EventEnvelope
	require.NoError(t, json.Unmarshal(publisher.messages[0].data, &first))
	require.NoError(t, json.Unmarshal(publisher.messages[1].data, &second))
	assert.NotEqual(t, first.EventID, second.EventID)
}

func TestNATSEventForwarder_Errors(t *testing.T) {
	event := events.GameResolvedEvent{Game: "coin_flip", UserID: 1, Wager: 10, Outcome: "heads", Delta: 10, NewBalance: 310}

	t.Run("missing stream is tolerated", func(t *testing.T) {
		forwarder := NewNATSEventForwarder(&recordingPublisher{err: nats.ErrNoStreamResponse})
		assert.NoError(t, forwarder.Forward(context.Background(), event))
	})

	t.Run("other failures are returned", func(t *testing.T) {
		forwarder := NewNATSEventForwarder(&recordingPublisher{err: errors.New("connection reset")})
		assert.Error(t, forwarder.Forward(context.Background(), event))
	})
}

func TestNATSEventForwarder_AttachForwardsCommittedEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	bus := events.NewBus()
	NewNATSEventForwarder(publisher).Attach(bus)

	tx := events.NewTransactionalBus(bus)
	tx.Publish(events.AccountCreatedEvent{DiscordID: 7, Username: "seven", InitialBalance: 300})
	tx.Publish(events.GameResolvedEvent{Game: "blackjack", UserID: 7, Outcome: "push"})

	// Nothing leaves the process before the commit
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, publisher.count())

	require.NoError(t, tx.Flush(context.Background()))
	assert.Eventually(t, func() bool { return publisher.count() == 2 }, time.Second, 10*time.Millisecond)

	tx.Publish(events.AccountCreatedEvent{DiscordID: 8})
	tx.Discard()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, publisher.count())
}
