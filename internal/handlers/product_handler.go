package handlers

import (
	"errors"
	"net/http"

	"melodix/internal/apperrors"
	"melodix/internal/models"
	"melodix/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	msgProductsFailed  = "failed to fetch products"
	msgProductFailed   = "failed to fetch product"
	msgProductNotFound = "product not found"
	msgInternalError   = "internal server error"
)

type ProductHandler struct {
	productService *services.ProductService
	logger         zerolog.Logger
}

func NewProductHandler(productService *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := models.ProductFilters{
		Category: query.Get("category"),
		Search:   query.Get("search"),
	}

	products, err := h.productService.ListProducts(r.Context(), filters)
	if err != nil {
		h.respondWithFault(w, msgProductsFailed)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	product, err := h.productService.GetProductBySlug(r.Context(), slug)
	if errors.Is(err, apperrors.ErrNotFound) {
		respondWithMessage(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	if err != nil {
		h.respondWithFault(w, msgProductFailed)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// respondWithFault writes the catalog's 500 body. The cause was already logged
// by the service and never reaches the client.
func (h *ProductHandler) respondWithFault(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusInternalServerError, map[string]string{
		"message": message,
		"error":   msgInternalError,
	})
}
