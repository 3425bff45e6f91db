package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"melodix/internal/config"
	"melodix/internal/models"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const publishTimeout = 5 * time.Second

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	Username string
	Password string
}

func KafkaConfigFrom(cfg config.Config) KafkaConfig {
	return KafkaConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		Username: cfg.KafkaUsername,
		Password: cfg.KafkaPassword,
	}
}

// mechanism returns SASL/PLAIN when credentials are set. Managed clusters
// that require it also require TLS.
func (c KafkaConfig) mechanism() sasl.Mechanism {
	if c.Username == "" {
		return nil
	}
	return plain.Mechanism{Username: c.Username, Password: c.Password}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher puts events on the mail topic for cmd/mailer to send.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
	now    func() time.Time
}

func NewKafkaPublisher(cfg KafkaConfig, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	if mech := cfg.mechanism(); mech != nil {
		writer.Transport = &kafka.Transport{SASL: mech, TLS: &tls.Config{}}
	}

	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Kafka publisher ready")
	return &KafkaPublisher{writer: writer, logger: logger, now: time.Now}
}

func (p *KafkaPublisher) PasswordResetRequested(ctx context.Context, evt models.PasswordResetEvent) error {
	return p.publish(ctx, models.EventPasswordResetRequested, evt)
}

func (p *KafkaPublisher) ContactReceived(ctx context.Context, evt models.ContactEvent) error {
	return p.publish(ctx, models.EventContactReceived, evt)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, payload any) error {
	now := p.now()
	value, err := EncodeEnvelope(eventType, payload, now)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: value,
		Time:  now,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event", eventType).Msg("Error publishing event")
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	p.logger.Debug().Str("event", eventType).Msg("Event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
