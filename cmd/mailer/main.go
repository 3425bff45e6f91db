// Command mailer drains the mail topic and sends each notification over SMTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"melodix/internal/config"
	"melodix/internal/logger"
	"melodix/internal/notify"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel, cfg.LogPretty).With().Str("service", "mailer").Logger()

	mailer, err := notify.NewMailer(notify.SMTPConfigFrom(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up SMTP")
	}

	kafkaCfg := notify.KafkaConfigFrom(cfg)
	consumer := notify.NewConsumer(kafkaCfg, mailer, log)
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing consumer")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Strs("brokers", kafkaCfg.Brokers).
		Str("topic", kafkaCfg.Topic).
		Str("group_id", kafkaCfg.GroupID).
		Msg("Mailer listening for events")

	if err := consumer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Consumer stopped with error")
		return
	}
	log.Info().Msg("Mailer stopped")
}
