package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/cropwatch/climate-risk-service/internal/config"
	"github.com/cropwatch/climate-risk-service/internal/domain"
)

// Writer produces assessments to a Kafka topic.
// It implements pipeline.BatchPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes multiple assessments to the sink
// Kafka topic in a single WriteMessages call for efficiency.
func (w *Writer) PublishBatch(ctx context.Context, assessments []domain.Assessment) error {
	if len(assessments) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(assessments))
	for i := range assessments {
		msg, err := serializeToMessage(assessments[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Assessment into a Kafka message.
func serializeToMessage(assessment domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(assessment)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(assessment.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(assessment.Category)},
			{Key: "mode", Value: []byte(assessment.Mode)},
			{Key: "assessed_at", Value: []byte(assessment.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
