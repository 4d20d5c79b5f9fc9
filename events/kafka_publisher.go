package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaPublisher writes events to a single topic, keyed so that all events
// for one account land on the same partition.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger logrus.FieldLogger
}

func NewKafkaPublisher(brokers []string, topic string, logger logrus.FieldLogger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafkago.RequireAll,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evts ...Event) error {
	msgs, err := toMessages(evts)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.writer.Topic, err)
	}
	p.logger.WithField("count", len(msgs)).Debug("published events")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessages(evts []Event) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(evts))
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("marshal event %s: %w", evt.Type, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(evt.Key),
			Value: payload,
			Time:  evt.OccurredAt,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(evt.Type)},
				{Key: "event_id", Value: []byte(evt.ID)},
			},
		})
	}
	return msgs, nil
}
