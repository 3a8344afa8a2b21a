package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FarhanHaider999/NextStay/internal/domain"
)

// UserStore is the persistence contract the handlers depend on. Mongo
// backs it in production; tests use the in-memory implementation.
// Lookups return (nil, nil) when no record matches.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	SaveUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	FindUserByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	FindUserByResetToken(ctx context.Context, token string) (*domain.User, error)
}

const usersColl = "users"

// EnsureUserIndexes creates the unique email index and a sparse index on
// google_id. Must run before the first insert.
func (s *Store) EnsureUserIndexes(ctx context.Context) error {
	coll := s.DB.Collection(usersColl)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	return err
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.DB.Collection(usersColl).InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := s.DB.Collection(usersColl).ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"google_id": googleID})
}

func (s *Store) FindUserByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"verification_token": token})
}

func (s *Store) FindUserByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"reset_password_token": token})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := s.DB.Collection(usersColl).FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
