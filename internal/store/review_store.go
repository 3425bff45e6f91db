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

type reviewDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"userId"`
	ProductID int64         `bson:"productId"`
	Rating    int           `bson:"rating"`
	Comment   string        `bson:"comment"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d reviewDocument) toModel() models.Review {
	return models.Review{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		ProductID: d.ProductID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
}

type ReviewStore struct {
	coll *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{coll: db.Collection(reviewsCollection)}
}

func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	uid, err := objectID(r.UserID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := reviewDocument{
		ID:        bson.NewObjectID(),
		UserID:    uid,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}

	r.ID = doc.ID.Hex()
	r.CreatedAt = now
	return nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"productId": productID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, translate(err)
	}

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}

	reviews := make([]models.Review, 0, len(docs))
	for _, d := range docs {
		reviews = append(reviews, d.toModel())
	}
	return reviews, nil
}
