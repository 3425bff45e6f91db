package notify

import (
	"context"

	"melodix/internal/models"

	"github.com/rs/zerolog"
)

// LogNotifier writes events to the log instead of sending anything. The reset
// link is logged so a developer can follow it.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	logger.Warn().Msg("Mail transport is log, no email will be sent")
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) PasswordResetRequested(ctx context.Context, evt models.PasswordResetEvent) error {
	n.logger.Info().
		Str("event", models.EventPasswordResetRequested).
		Str("email", evt.Email).
		Str("reset_url", evt.ResetURL).
		Time("expires", evt.ExpiresAt).
		Msg("Password reset email skipped")
	return nil
}

func (n *LogNotifier) ContactReceived(ctx context.Context, evt models.ContactEvent) error {
	n.logger.Info().
		Str("event", models.EventContactReceived).
		Str("email", evt.Email).
		Msg("Contact confirmation email skipped")
	return nil
}

func (n *LogNotifier) Close() error { return nil }
