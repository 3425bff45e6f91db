package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"melodix/internal/models"
	"melodix/internal/store"
)

type MockContactStore struct {
	CreateFunc func(ctx context.Context, c *models.Contact) error

	mu       sync.Mutex
	Contacts []models.Contact
}

func NewMockContactStore() *MockContactStore {
	return &MockContactStore{}
}

func (m *MockContactStore) Create(ctx context.Context, c *models.Contact) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = fmt.Sprintf("contact-%d", len(m.Contacts)+1)
	c.Date = time.Now().UTC()
	m.Contacts = append(m.Contacts, *c)
	return nil
}

// MockFavoriteStore enforces the (user, product) uniqueness like the real index.
type MockFavoriteStore struct {
	AddFunc        func(ctx context.Context, f *models.Favorite) error
	RemoveFunc     func(ctx context.Context, userID string, productID int64) error
	ListByUserFunc func(ctx context.Context, userID string) ([]models.Favorite, error)

	mu        sync.Mutex
	favorites []models.Favorite
}

func NewMockFavoriteStore() *MockFavoriteStore {
	return &MockFavoriteStore{}
}

func (m *MockFavoriteStore) Add(ctx context.Context, f *models.Favorite) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.favorites {
		if existing.UserID == f.UserID && existing.ProductID == f.ProductID {
			return store.ErrDuplicate
		}
	}
	f.ID = fmt.Sprintf("fav-%d", len(m.favorites)+1)
	f.CreatedAt = time.Now().UTC()
	m.favorites = append(m.favorites, *f)
	return nil
}

func (m *MockFavoriteStore) Remove(ctx context.Context, userID string, productID int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.favorites {
		if existing.UserID == userID && existing.ProductID == productID {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *MockFavoriteStore) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Favorite
	for i := len(m.favorites) - 1; i >= 0; i-- {
		if m.favorites[i].UserID == userID {
			out = append(out, m.favorites[i])
		}
	}
	return out, nil
}

type MockReviewStore struct {
	CreateFunc        func(ctx context.Context, r *models.Review) error
	ListByProductFunc func(ctx context.Context, productID int64) ([]models.Review, error)

	mu      sync.Mutex
	reviews []models.Review
}

func NewMockReviewStore() *MockReviewStore {
	return &MockReviewStore{}
}

func (m *MockReviewStore) Create(ctx context.Context, r *models.Review) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = fmt.Sprintf("review-%d", len(m.reviews)+1)
	r.CreatedAt = time.Now().UTC()
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *MockReviewStore) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	if m.ListByProductFunc != nil {
		return m.ListByProductFunc(ctx, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].ProductID == productID {
			out = append(out, m.reviews[i])
		}
	}
	return out, nil
}
