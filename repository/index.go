package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes both applications rely on. The unique
// indexes on note slug and username are what make uniqueness race-free.
func SetupIndexes(ctx context.Context, db *mongo.Database, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		NotesCollection: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("unique_slug").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "author_id", Value: 1},
					{Key: "created_at", Value: 1},
				},
				Options: options.Index().SetName("author_notes_date"),
			},
		},
		NewsCollection: {
			{
				Keys:    bson.D{{Key: "date", Value: -1}},
				Options: options.Index().SetName("news_date"),
			},
		},
		CommentsCollection: {
			{
				Keys: bson.D{
					{Key: "news_id", Value: 1},
					{Key: "created", Value: 1},
				},
				Options: options.Index().SetName("news_comments_created"),
			},
		},
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("unique_username").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("unique_user_id").SetUnique(true),
			},
		},
		SessionsCollection: {
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}},
				Options: options.Index().SetName("unique_session_id").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "is_active", Value: 1},
					{Key: "last_activity_at", Value: 1},
				},
				Options: options.Index().SetName("user_active_sessions"),
			},
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("session_ttl").SetExpireAfterSeconds(0),
			},
		},
	}

	for collection, models := range indexes {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
		log.Debug("indexes ready", slog.String("collection", collection), slog.Any("indexes", names))
	}
	return nil
}
