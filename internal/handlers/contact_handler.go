package handlers

import (
	"net/http"

	"melodix/internal/apperrors"
	"melodix/internal/models"
	"melodix/internal/services"

	"github.com/rs/zerolog"
)

const (
	msgContactSent   = "message sent successfully"
	msgContactFailed = "failed to send message"
)

type ContactHandler struct {
	contactService *services.ContactService
	logger         zerolog.Logger
}

func NewContactHandler(contactService *services.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if _, err := h.contactService.Submit(r.Context(), &req); err != nil {
		respondWithMessage(w, apperrors.HTTPStatus(err), apperrors.Message(err, msgContactFailed))
		return
	}

	respondWithMessage(w, http.StatusOK, msgContactSent)
}
