package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"melodix/internal/models"
	"melodix/internal/store"
)

// MockUserStore behaves like the document store by default, backed by a map.
// Set any XxxFunc to override a single method.
type MockUserStore struct {
	CreateFunc            func(ctx context.Context, u *models.User) error
	FindByEmailFunc       func(ctx context.Context, email string) (*models.User, error)
	FindByIDFunc          func(ctx context.Context, id string) (*models.User, error)
	FindByResetTokenFunc  func(ctx context.Context, token string) (*models.User, error)
	SetResetTokenFunc     func(ctx context.Context, id, token string, expires time.Time) error
	ConsumeResetTokenFunc func(ctx context.Context, id, token, passwordHash string, now time.Time) error

	mu     sync.Mutex
	users  map[string]*models.User
	nextID int

	SetResetTokenCalls int
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]*models.User)}
}

// Seed stores u as-is, assigning an ID when it has none.
func (m *MockUserStore) Seed(u *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		m.nextID++
		u.ID = fmt.Sprintf("%024x", m.nextID)
	}
	cp := *u
	m.users[u.ID] = &cp
	return u
}

// Get returns a copy of the stored user, or nil.
func (m *MockUserStore) Get(id string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (m *MockUserStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *MockUserStore) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = fmt.Sprintf("%024x", m.nextID)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *MockUserStore) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	if m.FindByResetTokenFunc != nil {
		return m.FindByResetTokenFunc(ctx, token)
	}
	if token == "" {
		return nil, store.ErrNotFound
	}
	return m.find(func(u *models.User) bool { return u.ResetPasswordToken == token })
}

func (m *MockUserStore) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	m.mu.Lock()
	m.SetResetTokenCalls++
	m.mu.Unlock()

	if m.SetResetTokenFunc != nil {
		return m.SetResetTokenFunc(ctx, id, token, expires)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = &expires
	return nil
}

func (m *MockUserStore) ConsumeResetToken(ctx context.Context, id, token, passwordHash string, now time.Time) error {
	if m.ConsumeResetTokenFunc != nil {
		return m.ConsumeResetTokenFunc(ctx, id, token, passwordHash, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.ResetPasswordToken != token || u.ResetPasswordExpires == nil || !now.Before(*u.ResetPasswordExpires) {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	u.UpdatedAt = now
	return nil
}

func (m *MockUserStore) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}
