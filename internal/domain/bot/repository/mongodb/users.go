package mongodb

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	"github.com/shred03/filestore-bot/pkg/errors"
)

// UserRepository persists the registry of users who started the bot.
// Implements deps.UserRepository.
type UserRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewUserRepository creates a user repository and ensures its indexes.
func NewUserRepository(db *mongo.Database, logger zerolog.Logger) *UserRepository {
	repo := &UserRepository{
		collection: db.Collection("users"),
		logger:     logger.With().Str("component", "user-repository").Logger(),
	}
	repo.ensureIndexes()
	return repo
}

func (r *UserRepository) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to create user index")
	}
}

// Upsert creates or refreshes a user record keyed by user id. The original
// first-seen time is preserved on refresh.
func (r *UserRepository) Upsert(ctx context.Context, user *entities.User) error {
	update := bson.M{
		"$set": bson.M{
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
		"$setOnInsert": bson.M{
			"user_id":    user.UserID,
			"created_at": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"user_id": user.UserID}, update, opts); err != nil {
		r.logger.Error().Err(err).Int64("user_id", user.UserID).Msg("Failed to upsert user")
		return errors.NewInternalError("failed to upsert user")
	}
	return nil
}

// All returns every known user.
func (r *UserRepository) All(ctx context.Context) ([]entities.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.NewInternalError("failed to query users")
	}
	defer cursor.Close(ctx)

	var users []entities.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.NewInternalError("failed to decode users")
	}
	return users, nil
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.NewInternalError("failed to count users")
	}
	return n, nil
}

// CountSince returns users first seen at or after the given time.
func (r *UserRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
	if err != nil {
		return 0, errors.NewInternalError("failed to count recent users")
	}
	return n, nil
}
