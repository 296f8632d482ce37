package mongodb

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/errors"
)

// PostRepository persists per-admin post composer settings. Implements
// deps.PostRepository.
type PostRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewPostRepository creates a post settings repository.
func NewPostRepository(db *mongo.Database, logger zerolog.Logger) *PostRepository {
	return &PostRepository{
		collection: db.Collection("post_settings"),
		logger:     logger.With().Str("component", "post-repository").Logger(),
	}
}

// LatestForAdmin returns the admin's current setting.
func (r *PostRepository) LatestForAdmin(ctx context.Context, adminID int64) (*entities.PostSetting, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	var setting entities.PostSetting
	err := r.collection.FindOne(ctx, bson.M{"admin_id": adminID}, opts).Decode(&setting)
	if err == mongo.ErrNoDocuments {
		return nil, boterrors.ErrNoPostChannel
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("admin_id", adminID).Msg("Failed to load post setting")
		return nil, errors.NewInternalError("failed to load post setting")
	}
	return &setting, nil
}

// UpsertChannel sets the admin's posting channel.
func (r *PostRepository) UpsertChannel(ctx context.Context, adminID int64, channelID, channelUsername string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"channel_id":       channelID,
			"channel_username": channelUsername,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"admin_id":   adminID,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"admin_id": adminID}, update, opts); err != nil {
		r.logger.Error().Err(err).Int64("admin_id", adminID).Msg("Failed to upsert post channel")
		return errors.NewInternalError("failed to upsert post channel")
	}
	return nil
}

// UpsertSticker sets the admin's chaser sticker. Requires an existing
// channel setting; callers enforce that before writing.
func (r *PostRepository) UpsertSticker(ctx context.Context, adminID int64, stickerID string) error {
	update := bson.M{
		"$set": bson.M{
			"sticker_id": stickerID,
			"updated_at": time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"admin_id": adminID}, update)
	if err != nil {
		r.logger.Error().Err(err).Int64("admin_id", adminID).Msg("Failed to upsert post sticker")
		return errors.NewInternalError("failed to upsert post sticker")
	}
	if result.MatchedCount == 0 {
		return boterrors.ErrNoPostChannel
	}
	return nil
}
