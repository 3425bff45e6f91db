package services

import (
	"context"
	"strings"

	"melodix/internal/apperrors"
	"melodix/internal/models"

	"github.com/rs/zerolog"
)

type ContactService struct {
	store    ContactStore
	notifier Notifier
	logger   zerolog.Logger
}

func NewContactService(contacts ContactStore, notifier Notifier, logger zerolog.Logger) *ContactService {
	return &ContactService{
		store:    contacts,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit stores the message and asks for a confirmation mail to the sender.
func (s *ContactService) Submit(ctx context.Context, req *models.ContactRequest) (*models.Contact, error) {
	content := req.Content
	if strings.TrimSpace(content) == "" {
		content = req.Message
	}

	contact := &models.Contact{
		Firstname: strings.TrimSpace(req.Firstname),
		Lastname:  strings.TrimSpace(req.Lastname),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Content:   strings.TrimSpace(content),
	}

	if contact.Firstname == "" || contact.Lastname == "" || contact.Email == "" || contact.Content == "" {
		return nil, apperrors.Validation(msgFieldsRequired)
	}
	if !validContactEmail(contact.Email) {
		return nil, apperrors.Validation("invalid email format")
	}

	if err := s.store.Create(ctx, contact); err != nil {
		s.logger.Error().Err(err).Msg("Error saving contact")
		return nil, apperrors.Internal("failed to save message", err)
	}

	err := s.notifier.ContactReceived(ctx, models.ContactEvent{
		Firstname: contact.Firstname,
		Lastname:  contact.Lastname,
		Email:     contact.Email,
		Content:   contact.Content,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("contact_id", contact.ID).Msg("Error sending contact confirmation")
		return nil, apperrors.Internal("failed to send confirmation email", err)
	}

	s.logger.Info().Str("contact_id", contact.ID).Msg("Contact message received")
	return contact, nil
}
