package services

import (
	"context"
	"errors"
	"strings"

	"melodix/internal/apperrors"
	"melodix/internal/models"
	"melodix/internal/store"

	"github.com/rs/zerolog"
)

type ReviewService struct {
	store    ReviewStore
	products ProductLookup
	logger   zerolog.Logger
}

func NewReviewService(reviews ReviewStore, products ProductLookup, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		store:    reviews,
		products: products,
		logger:   logger,
	}
}

func (s *ReviewService) Create(ctx context.Context, userID, slug string, req *models.ReviewRequest) (*models.Review, error) {
	comment := strings.TrimSpace(req.Comment)
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	if comment == "" {
		return nil, apperrors.Validation("comment is required")
	}

	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: product.ID,
		Rating:    req.Rating,
		Comment:   comment,
	}
	err = s.store.Create(ctx, review)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Int64("product_id", product.ID).Msg("Error creating review")
		return nil, apperrors.Internal("failed to create review", err)
	}

	s.logger.Info().Str("review_id", review.ID).Int64("product_id", product.ID).Msg("Review created")
	return review, nil
}

func (s *ReviewService) ListForProduct(ctx context.Context, slug string) ([]models.Review, error) {
	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	reviews, err := s.store.ListByProduct(ctx, product.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", product.ID).Msg("Error listing reviews")
		return nil, apperrors.Internal("failed to list reviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}
