package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/enrollhq/enroll/internal/entity"
	"github.com/enrollhq/enroll/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

type EventProducer struct {
	*producer.Producer
	topic string
}

func NewEventProducer(producer *producer.Producer, topic string) *EventProducer {
	return &EventProducer{
		producer,
		topic,
	}
}

func (ep *EventProducer) SendTransition(ctx context.Context, event *entity.TransitionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("EventProducer - SendTransition - json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Topic: ep.topic,
		Key:   []byte(event.Username),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID.String())},
		},
	}

	err = ep.Writer.WriteMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("EventProducer - SendTransition - ep.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (ep *EventProducer) Close() error {
	err := ep.Producer.Close()
	if err != nil {
		return fmt.Errorf("EventProducer - Close: %w", err)
	}

	return nil
}
