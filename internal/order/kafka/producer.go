package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"foodbooking/internal/models"
)

// Producer streams order lifecycle events for downstream consumers
// (reporting, notifications). Publishing is best-effort at checkout.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

type orderEvent struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

// PublishOrderCreated streams the order event to Kafka.
func (p *Producer) PublishOrderCreated(order models.Order) error {
	msgBytes, err := json.Marshal(orderEvent{Type: "order.created", Order: order})
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(fmt.Sprintf("%d", order.ID)),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
