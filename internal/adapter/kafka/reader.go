package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/cropwatch/climate-risk-service/internal/config"
	"github.com/cropwatch/climate-risk-service/internal/domain"
)

// Reader consumes reading envelopes from the source topic as part of a
// consumer group. It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	logger        *slog.Logger
	flushInterval time.Duration
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaSourceTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Reader{
		reader:        r,
		logger:        logger,
		flushInterval: cfg.BatchFlushInterval,
	}
}

// ExtractBatch fetches up to batchSize messages, returning early once the
// flush interval elapses so partial batches keep flowing during quiet periods.
// Offsets are not committed here; each RawReading carries a Commit closure the
// pipeline invokes after the assessment is published.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawReading, error) {
	batch := make([]domain.RawReading, 0, batchSize)

	deadline, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(deadline)
		if err != nil {
			// Flush whatever was collected when the interval elapses.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return batch, nil
			}
			return nil, err
		}
		batch = append(batch, r.mapMessageToRawReading(msg))
	}
	return batch, nil
}

func (r *Reader) mapMessageToRawReading(msg kafkago.Message) domain.RawReading {
	raw := mapMessageToRawReading(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToRawReading converts a Kafka message into the domain shape.
func mapMessageToRawReading(msg kafkago.Message) domain.RawReading {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawReading{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
