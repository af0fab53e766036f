package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/domain"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesKeyedEnvelope(t *testing.T) {
	w := &recordingWriter{}
	pub := newKafkaPublisherWithWriter(w)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	err := pub.Publish(context.Background(), &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "entry-1",
		AggregateType: domain.AggregateTypeLedgerEntry,
		EventType:     domain.EventTypePaymentSettled,
		Payload:       map[string]any{"credits": 100},
		CreatedAt:     created,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "entry-1", string(msg.Key))
	assert.Equal(t, created, msg.Time)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "evt-1", headers["event-id"])
	assert.Equal(t, domain.EventTypePaymentSettled, headers["event-type"])

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "evt-1", env.ID)
	assert.Equal(t, domain.EventTypePaymentSettled, env.Type)
	assert.Equal(t, float64(100), env.Payload["credits"])

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	pub := newKafkaPublisherWithWriter(&recordingWriter{err: errors.New("broker unavailable")})

	err := pub.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evt-1")
	assert.Contains(t, err.Error(), "broker unavailable")
}
