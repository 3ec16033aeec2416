package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MinKhant07/Thumbnail/internal/config"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TopicThumbnailEvents = "thumbnail.events"

type ThumbnailEventType string

const (
	ThumbnailEventTypeUploaded ThumbnailEventType = "thumbnail.uploaded"
	ThumbnailEventTypeDeleted  ThumbnailEventType = "thumbnail.deleted"
)

// ThumbnailEventPayload carries ids only; consumers fetch the record
// themselves rather than shipping the encoded image through the broker.
type ThumbnailEventPayload struct {
	EventType   ThumbnailEventType `json:"event_type"`
	ThumbnailID uuid.UUID          `json:"thumbnail_id"`
	OwnerID     uuid.UUID          `json:"owner_id"`
}

type KafkaProducerClient struct {
	ThumbnailEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicThumbnailEvents,
		Balancer: &kafka.LeastBytes{},
	}

	fmt.Println("Initialize Kafka Producer successfully.")

	return &KafkaProducerClient{ThumbnailEventsWriter: writer}, nil
}

func (c *KafkaProducerClient) PublishThumbnailEvent(ctx context.Context, payload ThumbnailEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal thumbnail event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.ThumbnailID.String()),
		Value: value,
	}

	if err := c.ThumbnailEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write thumbnail event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ThumbnailEventsWriter != nil {
		c.ThumbnailEventsWriter.Close()
	}
	fmt.Println("Closed Kafka Producer")
}
