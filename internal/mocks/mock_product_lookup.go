package mocks

import (
	"context"

	"melodix/internal/apperrors"
	"melodix/internal/models"
)

// MockProductLookup serves products from a fixed list.
type MockProductLookup struct {
	Products []models.Product

	GetProductBySlugFunc func(ctx context.Context, slug string) (*models.Product, error)
	GetProductByIDFunc   func(ctx context.Context, id int64) (*models.Product, error)
}

func NewMockProductLookup(products ...models.Product) *MockProductLookup {
	return &MockProductLookup{Products: products}
}

func (m *MockProductLookup) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if m.GetProductBySlugFunc != nil {
		return m.GetProductBySlugFunc(ctx, slug)
	}
	for i := range m.Products {
		if m.Products[i].Slug == slug {
			p := m.Products[i]
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product not found")
}

func (m *MockProductLookup) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	if m.GetProductByIDFunc != nil {
		return m.GetProductByIDFunc(ctx, id)
	}
	for i := range m.Products {
		if m.Products[i].ID == id {
			p := m.Products[i]
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("product not found")
}
