package handlers

import (
	"net/http"

	"melodix/internal/apperrors"
	"melodix/internal/middleware"
	"melodix/internal/models"
	"melodix/internal/services"

	"github.com/rs/zerolog"
)

const msgRegistered = "user registered successfully"

type AuthHandler struct {
	userService *services.UserService
	logger      zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Str("kind", apperrors.KindOf(err).String()).Msg("Registration failed")
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, models.RegisterResponse{
		Message: msgRegistered,
		User:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Str("kind", apperrors.KindOf(err).String()).Msg("Login failed")
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resp, err := h.userService.ForgotPassword(r.Context(), &req)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resp, err := h.userService.ResetPassword(r.Context(), &req)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	resp, err := h.userService.Refresh(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, resp)
}

// Auth endpoints answer failures as {"errorMessage": ...}.
func (h *AuthHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"errorMessage": message})
}

func (h *AuthHandler) respondWithServiceError(w http.ResponseWriter, err error) {
	h.respondWithError(w, apperrors.HTTPStatus(err), apperrors.Message(err, msgServerError))
}

func (h *AuthHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, payload)
}
