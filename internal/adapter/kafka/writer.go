package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pallapizza/daily-report-runner/internal/config"
	"github.com/pallapizza/daily-report-runner/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces saved report records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one record keyed by date and venue. Re-running a day for a
// venue reuses the key, so the repeat lands on the same partition as the
// first attempt and supersedes it on a compacted topic.
func (w *Writer) Publish(ctx context.Context, date, venue string, record *domain.Fields) error {
	msg, err := serializeToMessage(date, venue, record)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write report message: %w", err)
	}
	w.logger.Debug("report published", "topic", w.writer.Topic, "venue", venue, "date", date)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a report record into a Kafka message.
func serializeToMessage(date, venue string, record *domain.Fields) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(date, venue)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "venue", Value: []byte(venue)},
			{Key: "report_date", Value: []byte(date)},
		},
	}, nil
}

func messageKey(date, venue string) string {
	return date + "|" + venue
}
