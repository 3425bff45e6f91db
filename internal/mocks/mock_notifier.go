package mocks

import (
	"context"
	"sync"

	"melodix/internal/models"
)

// MockNotifier records every event it is handed.
type MockNotifier struct {
	PasswordResetRequestedFunc func(ctx context.Context, evt models.PasswordResetEvent) error
	ContactReceivedFunc        func(ctx context.Context, evt models.ContactEvent) error

	mu            sync.Mutex
	ResetEvents   []models.PasswordResetEvent
	ContactEvents []models.ContactEvent
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) PasswordResetRequested(ctx context.Context, evt models.PasswordResetEvent) error {
	m.mu.Lock()
	m.ResetEvents = append(m.ResetEvents, evt)
	m.mu.Unlock()

	if m.PasswordResetRequestedFunc != nil {
		return m.PasswordResetRequestedFunc(ctx, evt)
	}
	return nil
}

func (m *MockNotifier) ContactReceived(ctx context.Context, evt models.ContactEvent) error {
	m.mu.Lock()
	m.ContactEvents = append(m.ContactEvents, evt)
	m.mu.Unlock()

	if m.ContactReceivedFunc != nil {
		return m.ContactReceivedFunc(ctx, evt)
	}
	return nil
}
