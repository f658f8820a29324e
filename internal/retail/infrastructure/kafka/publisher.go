package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/retailhub/retail-api/internal/retail/domain"
	"github.com/retailhub/retail-api/pkg/tracing"
)

// DefaultTopic carries the routing key the loyalty consumer binds to.
const DefaultTopic = "levelup.create.retail.service"

const eventType = "LevelUpUpserted"

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// LoyaltyPublisher delivers loyalty-update intents to the level-up topic.
// Messages are keyed by customer id so updates for one customer stay ordered
// within a partition; each carries a unique message_id for consumer-side
// deduplication.
type LoyaltyPublisher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewLoyaltyPublisher(log *slog.Logger, producer Producer, topic string) *LoyaltyPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &LoyaltyPublisher{log: log, producer: producer, topic: topic}
}

func (p *LoyaltyPublisher) Publish(ctx context.Context, event domain.LevelUpUpserted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(eventType)},
		{Key: "message_id", Value: []byte(uuid.NewString())},
	}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(strconv.Itoa(event.CustomerID)),
		Value:   payload,
		Headers: headers,
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	p.log.Info("loyalty update published",
		"customer_id", event.CustomerID, "points", event.Points)
	return nil
}
