package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boilerplate/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a repository backed by the users collection of db.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		coll: db.Collection(UsersCollection),
	}
}

// EnsureIndexes creates the unique email index.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Save upserts the user document, hashing a modified password first.
func (r *MongoUserRepository) Save(ctx context.Context, user *models.User) error {
	if err := user.PrepareForSave(); err != nil {
		return err
	}

	now := time.Now()
	isNew := user.ID == ""
	if isNew {
		user.ID = bson.NewObjectID().Hex()
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	if err != nil {
		if isNew {
			user.ID = ""
		}
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by their email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByIDAndToken retrieves a user whose ID and stored token both match.
func (r *MongoUserRepository) GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": id, "token": token})
}

// HasToken reports whether token is still stored on the user.
func (r *MongoUserRepository) HasToken(ctx context.Context, id, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id, "token": token}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.MarkLoaded()
	return &user, nil
}
