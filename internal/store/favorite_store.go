package store

import (
	"context"
	"fmt"
	"time"

	"melodix/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type favoriteDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"userId"`
	ProductID int64         `bson:"productId"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d favoriteDocument) toModel() models.Favorite {
	return models.Favorite{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		ProductID: d.ProductID,
		CreatedAt: d.CreatedAt,
	}
}

type FavoriteStore struct {
	coll *mongo.Collection
}

func NewFavoriteStore(db *mongo.Database) *FavoriteStore {
	return &FavoriteStore{coll: db.Collection(favoritesCollection)}
}

// Add relies on the (userId, productId) unique index; a second add of the
// same product yields ErrDuplicate.
func (s *FavoriteStore) Add(ctx context.Context, f *models.Favorite) error {
	uid, err := objectID(f.UserID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := favoriteDocument{
		ID:        bson.NewObjectID(),
		UserID:    uid,
		ProductID: f.ProductID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}

	f.ID = doc.ID.Hex()
	f.CreatedAt = now
	return nil
}

func (s *FavoriteStore) Remove(ctx context.Context, userID string, productID int64) error {
	uid, err := objectID(userID)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"userId": uid, "productId": productID})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FavoriteStore) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	uid, err := objectID(userID)
	if err != nil {
		return []models.Favorite{}, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"userId": uid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, translate(err)
	}

	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding favorites: %w", err)
	}

	favorites := make([]models.Favorite, 0, len(docs))
	for _, d := range docs {
		favorites = append(favorites, d.toModel())
	}
	return favorites, nil
}
