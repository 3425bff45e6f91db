package services

import (
	"context"
	"errors"

	"melodix/internal/apperrors"
	"melodix/internal/models"
	"melodix/internal/store"

	"github.com/rs/zerolog"
)

type FavoriteService struct {
	store    FavoriteStore
	products ProductLookup
	logger   zerolog.Logger
}

func NewFavoriteService(favorites FavoriteStore, products ProductLookup, logger zerolog.Logger) *FavoriteService {
	return &FavoriteService{
		store:    favorites,
		products: products,
		logger:   logger,
	}
}

func (s *FavoriteService) Add(ctx context.Context, userID string, productID int64) (*models.Favorite, error) {
	if productID <= 0 {
		return nil, apperrors.Validation("productId is required")
	}
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	fav := &models.Favorite{UserID: userID, ProductID: productID}
	err := s.store.Add(ctx, fav)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperrors.Conflict("product already in favorites")
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NotFound("user not found")
	case err != nil:
		s.logger.Error().Err(err).Str("user_id", userID).Int64("product_id", productID).Msg("Error adding favorite")
		return nil, apperrors.Internal("failed to add favorite", err)
	}

	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID string, productID int64) error {
	err := s.store.Remove(ctx, userID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("favorite not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Int64("product_id", productID).Msg("Error removing favorite")
		return apperrors.Internal("failed to remove favorite", err)
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	favorites, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error listing favorites")
		return nil, apperrors.Internal("failed to list favorites", err)
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, nil
}
