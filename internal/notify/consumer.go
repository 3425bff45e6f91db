package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const fetchRetryDelay = time.Second

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer drains the mail topic as part of a consumer group and hands each
// event to a handler.
type Consumer struct {
	reader  messageReader
	handler EventHandler
	logger  zerolog.Logger
}

func NewConsumer(cfg KafkaConfig, handler EventHandler, logger zerolog.Logger) *Consumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if mech := cfg.mechanism(); mech != nil {
		dialer.SASLMechanism = mech
		dialer.TLS = &tls.Config{}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return &Consumer{reader: reader, handler: handler, logger: logger}
}

// Run processes messages until ctx is cancelled or the reader is closed.
// Every message is committed once handled, so a failed send is logged and not
// retried.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Error().Err(err).Msg("Error fetching message")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Error committing message")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	log := c.logger.With().
		Str("key", string(msg.Key)).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Logger()

	if err := Dispatch(ctx, c.handler, msg.Value); err != nil {
		log.Error().Err(err).Msg("Error handling message")
		return
	}
	log.Info().Msg("Message handled")
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
