// Package notify delivers the mail-worthy events raised by the services:
// straight over SMTP, through a Kafka topic drained by cmd/mailer, or into
// the log during development.
package notify

import (
	"context"
	"fmt"
	"strings"

	"melodix/internal/config"
	"melodix/internal/models"

	"github.com/rs/zerolog"
)

const (
	TransportLog   = "log"
	TransportSMTP  = "smtp"
	TransportKafka = "kafka"
)

// EventHandler is anything that can act on the two notification events.
type EventHandler interface {
	PasswordResetRequested(ctx context.Context, evt models.PasswordResetEvent) error
	ContactReceived(ctx context.Context, evt models.ContactEvent) error
}

type Notifier interface {
	EventHandler
	Close() error
}

// New picks the transport named by cfg.MailTransport.
func New(cfg config.Config, logger zerolog.Logger) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.MailTransport)) {
	case "", TransportLog:
		return NewLogNotifier(logger), nil
	case TransportSMTP:
		return NewMailer(SMTPConfigFrom(cfg), logger)
	case TransportKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("kafka transport needs at least one broker")
		}
		return NewKafkaPublisher(KafkaConfigFrom(cfg), logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
	}
}
