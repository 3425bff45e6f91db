package services

import (
	"context"
	"time"

	"melodix/internal/models"
)

// UserStore is the document-store contract the identity flows run against.
// Lookups return store.ErrNotFound, Create returns store.ErrDuplicate when the
// email is taken.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, id, token, passwordHash string, now time.Time) error
}

type ContactStore interface {
	Create(ctx context.Context, c *models.Contact) error
}

type FavoriteStore interface {
	Add(ctx context.Context, f *models.Favorite) error
	Remove(ctx context.Context, userID string, productID int64) error
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
}

type ReviewStore interface {
	Create(ctx context.Context, r *models.Review) error
	ListByProduct(ctx context.Context, productID int64) ([]models.Review, error)
}

// ProductLookup is the slice of the catalog other services need.
type ProductLookup interface {
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// Notifier hands mail-worthy events to whatever delivers them.
type Notifier interface {
	PasswordResetRequested(ctx context.Context, evt models.PasswordResetEvent) error
	ContactReceived(ctx context.Context, evt models.ContactEvent) error
}
