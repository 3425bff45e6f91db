package store

import (
	"context"
	"time"

	"melodix/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDocument struct {
	ID                   bson.ObjectID `bson:"_id,omitempty"`
	FirstName            string        `bson:"firstName"`
	LastName             string        `bson:"lastName"`
	Email                string        `bson:"email"`
	Password             string        `bson:"password"`
	Address              string        `bson:"address"`
	Phone                string        `bson:"phone"`
	Role                 string        `bson:"role"`
	ResetPasswordToken   string        `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time    `bson:"resetPasswordExpires,omitempty"`
	CreatedAt            time.Time     `bson:"createdAt"`
	UpdatedAt            time.Time     `bson:"updatedAt"`
}

func toUserDocument(u *models.User) userDocument {
	doc := userDocument{
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Email:                u.Email,
		Password:             u.PasswordHash,
		Address:              u.Address,
		Phone:                u.Phone,
		Role:                 u.Role,
		ResetPasswordToken:   u.ResetPasswordToken,
		ResetPasswordExpires: u.ResetPasswordExpires,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
	if id, err := bson.ObjectIDFromHex(u.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:                   d.ID.Hex(),
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		Email:                d.Email,
		PasswordHash:         d.Password,
		Address:              d.Address,
		Phone:                d.Phone,
		Role:                 d.Role,
		ResetPasswordToken:   d.ResetPasswordToken,
		ResetPasswordExpires: d.ResetPasswordExpires,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

// Create inserts u and fills in its ID. A taken email yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	doc := toUserDocument(u)
	doc.ID = bson.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	u.ID = doc.ID.Hex()
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"resetPasswordToken": token})
}

// SetResetToken overwrites any outstanding token for the user.
func (s *UserStore) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"resetPasswordToken":   token,
			"resetPasswordExpires": expires,
			"updatedAt":            time.Now().UTC(),
		}},
	)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeResetToken swaps the password hash and clears the token in one
// update that only matches while the token is still current and unexpired.
func (s *UserStore) ConsumeResetToken(ctx context.Context, id, token, passwordHash string, now time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"_id":                  oid,
			"resetPasswordToken":   token,
			"resetPasswordExpires": bson.M{"$gt": now},
		},
		bson.M{
			"$set":   bson.M{"password": passwordHash, "updatedAt": now},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
		},
	)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}
