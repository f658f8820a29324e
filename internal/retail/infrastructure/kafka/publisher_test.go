package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

type fakeProducer struct {
	messages []kafka.Message
	err      error
}

func (f *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func headerValue(headers []kafka.Header, key string) (string, bool) {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}
	return "", false
}

func TestPublishNewCustomerIntent(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewLoyaltyPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)), producer, "")

	err := publisher.Publish(context.Background(), domain.LevelUpUpserted{
		CustomerID: 7,
		Points:     1,
		MemberDate: domain.NewDate(2021, 6, 1),
	})

	require.NoError(t, err)
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, DefaultTopic, msg.Topic)
	assert.Equal(t, "7", string(msg.Key))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.NotContains(t, payload, "levelUpId",
		"create intents must not carry a ledger id")
	assert.EqualValues(t, 7, payload["customerId"])
	assert.EqualValues(t, 1, payload["points"])
	assert.Equal(t, "2021-06-01", payload["memberDate"])

	eventType, ok := headerValue(msg.Headers, "event_type")
	require.True(t, ok)
	assert.Equal(t, "LevelUpUpserted", eventType)
	messageID, ok := headerValue(msg.Headers, "message_id")
	require.True(t, ok)
	assert.NotEmpty(t, messageID)
}

func TestPublishExistingCustomerIntent(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewLoyaltyPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)), producer, "levelup.test")

	levelUpID := 55
	err := publisher.Publish(context.Background(), domain.LevelUpUpserted{
		LevelUpID:  &levelUpID,
		CustomerID: 7,
		Points:     11,
		MemberDate: domain.NewDate(2021, 6, 1),
	})

	require.NoError(t, err)
	require.Len(t, producer.messages, 1)
	assert.Equal(t, "levelup.test", producer.messages[0].Topic)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(producer.messages[0].Value, &payload))
	assert.EqualValues(t, 55, payload["levelUpId"])
	assert.EqualValues(t, 11, payload["points"])
}

func TestPublishPropagatesProducerError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker unreachable")}
	publisher := NewLoyaltyPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)), producer, "")

	err := publisher.Publish(context.Background(), domain.LevelUpUpserted{CustomerID: 7})

	assert.Error(t, err)
}
