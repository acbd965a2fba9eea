package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/repository"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toUserDocument(u models.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDocument) toModel() (models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("parse user id %q: %w", d.ID, err)
	}
	return models.User{
		ID:           id,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// UserRepository implements repository.UserStore on a MongoDB collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository wraps the provided collection.
func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

// Create inserts the account; the unique username index rejects duplicates.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.coll.InsertOne(ctx, toUserDocument(user))
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user %s: %w", user.Username, err)
	}
	return nil
}

// FindByUsername loads an account by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, repository.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user %s: %w", username, err)
	}
	return doc.toModel()
}
