package handlers

import (
	"net/http"
	"strconv"

	"melodix/internal/middleware"
	"melodix/internal/models"
	"melodix/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	logger          zerolog.Logger
}

func NewFavoriteHandler(favoriteService *services.FavoriteService, logger zerolog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithMessage(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	favorites, err := h.favoriteService.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"favorites": favorites})
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithMessage(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	var req models.FavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	favorite, err := h.favoriteService.Add(r.Context(), userID, req.ProductID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"favorite": favorite})
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithMessage(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil || productID <= 0 {
		respondWithMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.favoriteService.Remove(r.Context(), userID, productID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "favorite removed")
}
