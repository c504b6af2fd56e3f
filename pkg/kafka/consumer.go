package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer handles Kafka message consumption
type Consumer struct {
	Config   *cfg.Config
	Logger   log.Logger
	topic    string
	reader   MessageReader
	handlers map[string]func([]byte) error
}

// NewConsumer creates and returns a new Kafka Consumer
func NewConsumer(config *cfg.Config, logger log.Logger, topic, groupID string) (*Consumer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Kafka.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3,        // 10KB
		MaxBytes:       10e6,        // 10MB
		MaxWait:        time.Second, // Maximum amount of time to wait for new data
		StartOffset:    kafka.FirstOffset,
		RetentionTime:  7 * 24 * time.Hour, // 1 week
		CommitInterval: time.Second,        // Flush commits to Kafka every second
	})

	return NewConsumerWithReader(config, logger, topic, reader), nil
}

func NewConsumerWithReader(config *cfg.Config, logger log.Logger, topic string, reader MessageReader) *Consumer {
	return &Consumer{
		Config:   config,
		Logger:   logger,
		topic:    topic,
		reader:   reader,
		handlers: make(map[string]func([]byte) error),
	}
}

// RegisterHandler registers a message handler for a specific message key
func (c *Consumer) RegisterHandler(key string, handler func([]byte) error) {
	c.handlers[key] = handler
}

// Start consumes until ctx is done, then closes the reader.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info(ctx, "Starting Kafka consumer for topic: %s", c.topic)
	defer c.reader.Close()

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.Logger.Error(ctx, "Error reading message: %v", err)
			continue
		}

		key := string(message.Key)
		handler, exists := c.handlers[key]
		if !exists {
			c.Logger.Warn(ctx, "No handler registered for message with key: %s", key)
			continue
		}
		if err := handler(message.Value); err != nil {
			c.Logger.Error(ctx, "Error handling message with key %s: %v", key, err)
			continue
		}
		c.Logger.Debug(ctx, "Processed message with key %s at offset %d", key, message.Offset)
	}
}
