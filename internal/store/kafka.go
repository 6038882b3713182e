package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const DefaultKafkaTopic = "meetings.events"

// KafkaSink publishes each event as a JSON message keyed by the meeting or
// appointment id, so events of one meeting stay on one partition.
type KafkaSink struct {
	writer *kafka.Writer
}

type meetingCreatedMessage struct {
	Type string `json:"type"`
	domain.MeetingRecord
}

func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	log.Info().Str("module", "store.kafka").Strs("brokers", brokers).Str("topic", topic).Msg("kafka writer ready")
	return &KafkaSink{writer: w}, nil
}

func meetingMessage(rec domain.MeetingRecord) (kafka.Message, error) {
	value, err := json.Marshal(meetingCreatedMessage{Type: "meeting.created", MeetingRecord: rec})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return kafka.Message{
		Key:   []byte(rec.MeetingID),
		Value: value,
		Time:  time.UnixMilli(rec.Timestamp),
	}, nil
}

func callMessage(ev core.CallEvent) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.AppointmentID),
		Value: value,
		Time:  ev.At,
	}, nil
}

func (s *KafkaSink) MeetingCreated(ctx context.Context, rec domain.MeetingRecord) error {
	msg, err := meetingMessage(rec)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (s *KafkaSink) CallEvent(ctx context.Context, ev core.CallEvent) error {
	msg, err := callMessage(ev)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
