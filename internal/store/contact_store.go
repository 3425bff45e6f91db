package store

import (
	"context"
	"time"

	"melodix/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type contactDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Firstname string        `bson:"firstname"`
	Lastname  string        `bson:"lastname"`
	Email     string        `bson:"email"`
	Phone     string        `bson:"phone,omitempty"`
	Content   string        `bson:"content"`
	Date      time.Time     `bson:"date"`
}

type ContactStore struct {
	coll *mongo.Collection
}

func NewContactStore(db *mongo.Database) *ContactStore {
	return &ContactStore{coll: db.Collection(contactsCollection)}
}

func (s *ContactStore) Create(ctx context.Context, c *models.Contact) error {
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}

	doc := contactDocument{
		ID:        bson.NewObjectID(),
		Firstname: c.Firstname,
		Lastname:  c.Lastname,
		Email:     c.Email,
		Phone:     c.Phone,
		Content:   c.Content,
		Date:      c.Date,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	c.ID = doc.ID.Hex()
	return nil
}
