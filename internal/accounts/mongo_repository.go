package accounts

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wolfman30/synapse-clinic-hub/internal/session"
)

const usersCollection = "users"

// MongoRepository keeps users in the "users" collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository binds to db.users.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	if db == nil {
		panic("accounts: mongo database required")
	}
	return &MongoRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes lookups rely on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("accounts: create indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("accounts: find %s: %w", email, err)
	}
	return &user, nil
}

func (r *MongoRepository) Create(ctx context.Context, user *User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("accounts: insert: %w", err)
	}
	return nil
}

func (r *MongoRepository) CountByRole(ctx context.Context, role session.Role) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("accounts: count %s: %w", role, err)
	}
	return n, nil
}
