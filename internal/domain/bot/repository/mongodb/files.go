// Package mongodb contains MongoDB-backed repositories for the bot domain
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

// FileRepository persists the stored-file catalog. Implements
// deps.FileRepository.
type FileRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewFileRepository creates a file repository and ensures its indexes.
func NewFileRepository(db *mongo.Database, logger zerolog.Logger) *FileRepository {
	repo := &FileRepository{
		collection: db.Collection("files"),
		logger:     logger.With().Str("component", "file-repository").Logger(),
	}
	repo.ensureIndexes()
	return repo
}

func (r *FileRepository) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}, {Key: "message_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to create file indexes")
	}
}

// Insert persists a single record.
func (r *FileRepository) Insert(ctx context.Context, file *entities.StoredFile) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, file); err != nil {
		r.logger.Error().Err(err).Str("token", file.BatchToken).Msg("Failed to insert file")
		return errors.NewInternalError("failed to insert file")
	}
	return nil
}

// InsertMany bulk-persists a buffered batch.
func (r *FileRepository) InsertMany(ctx context.Context, files []entities.StoredFile) error {
	if len(files) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(files))
	now := time.Now()
	for i := range files {
		if files[i].CreatedAt.IsZero() {
			files[i].CreatedAt = now
		}
		docs = append(docs, files[i])
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		r.logger.Error().Err(err).Int("count", len(files)).Msg("Failed to insert file batch")
		return errors.NewInternalError("failed to insert file batch")
	}
	return nil
}

// FindByToken returns all records for a token ordered by message sequence
// ascending. An unknown token yields an empty slice, not an error.
func (r *FileRepository) FindByToken(ctx context.Context, token string) ([]entities.StoredFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "message_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"token": token}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("token", token).Msg("Failed to query files by token")
		return nil, errors.NewInternalError("failed to query files")
	}
	defer cursor.Close(ctx)

	var files []entities.StoredFile
	if err := cursor.All(ctx, &files); err != nil {
		return nil, errors.NewInternalError("failed to decode files")
	}
	return files, nil
}

// Count returns the total number of records.
func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.NewInternalError("failed to count files")
	}
	return n, nil
}

// CountSince returns records created at or after the given time.
func (r *FileRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
	if err != nil {
		return 0, errors.NewInternalError("failed to count recent files")
	}
	return n, nil
}
