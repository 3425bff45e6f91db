package handlers

import (
	"net/http"

	"melodix/internal/middleware"
	"melodix/internal/models"
	"melodix/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	logger        zerolog.Logger
}

func NewReviewHandler(reviewService *services.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListForProduct(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithMessage(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	var req models.ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	review, err := h.reviewService.Create(r.Context(), userID, mux.Vars(r)["slug"], &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"review": review})
}
