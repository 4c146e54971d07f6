package event

import (
	"context"
	"encoding/json"
	"errors"

	"resume-service/internal/domain"
	"resume-service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const TopicDownloadEvents = "resume.downloads"

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends one message per counted download, keyed by variant.
type KafkaPublisher struct {
	writer messageWriter
	log    logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log logger.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if topic == "" {
		topic = TopicDownloadEvents
	}
	if log == nil {
		log = logger.NewNop()
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Downloads must not wait on the broker.
		Async: true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Warn("download events not delivered", zap.Int("count", len(msgs)), zap.Error(err))
			}
		},
	}
	log.Info("kafka publisher initialised", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &KafkaPublisher{writer: w, log: log}, nil
}

func newPublisher(w messageWriter, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.DownloadEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Variant),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.log.Info("kafka publisher closed")
	return err
}
