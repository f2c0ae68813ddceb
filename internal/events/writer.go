package events

import (
	"context"
	"fmt"

	"github.com/brandworks/asset-qc/internal/config"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

const (
	WriterStdout = "stdout"
	WriterKafka  = "kafka"
	WriterRedis  = "redis"
	WriterNone   = "none"
)

// NewWriter builds the writer selected by QC_EVENTS_WRITER and returns the topic it
// should publish to.
func NewWriter(ctx context.Context, cfg config.Events) (Writer, string, error) {
	switch cfg.Writer {
	case "", WriterStdout:
		return &StdoutWriter{}, defaultTopic, nil
	case WriterNone:
		return &discardWriter{}, defaultTopic, nil
	case WriterKafka:
		saramaCfg, err := NewKafkaSaramaConfig(cfg.Kafka.Version, cfg.Kafka.ClientID)
		if err != nil {
			return nil, "", err
		}
		w, err := NewKafkaWriter(cfg.Kafka.Brokers, saramaCfg)
		if err != nil {
			return nil, "", err
		}
		return w, cfg.Kafka.Topic, nil
	case WriterRedis:
		w, err := NewRedisWriter(ctx, cfg.Redis.Address)
		if err != nil {
			return nil, "", err
		}
		return w, cfg.Redis.Channel, nil
	default:
		return nil, "", fmt.Errorf("unknown events writer %q", cfg.Writer)
	}
}

type discardWriter struct{}

func (d *discardWriter) Write(context.Context, string, cloudevents.Event) error { return nil }

func (d *discardWriter) Close(context.Context) error { return nil }
