package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"melodix/internal/models"
)

var ErrUnknownEvent = errors.New("unknown event type")

func EncodeEnvelope(eventType string, payload any, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	return json.Marshal(models.Envelope{Type: eventType, Payload: raw, SentAt: at.UTC()})
}

// Dispatch decodes one envelope and hands its payload to h.
func Dispatch(ctx context.Context, h EventHandler, data []byte) error {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to decode envelope: %w", err)
	}

	switch env.Type {
	case models.EventPasswordResetRequested:
		var evt models.PasswordResetEvent
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			return fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return h.PasswordResetRequested(ctx, evt)
	case models.EventContactReceived:
		var evt models.ContactEvent
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			return fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return h.ContactReceived(ctx, evt)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}
