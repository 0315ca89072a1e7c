package repository

import (
	"context"
	"errors"
	"fmt"

	"yaapps/model"
	"yaapps/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	NewsCollection     = "news"
	CommentsCollection = "comments"
)

type NewsRepo struct {
	MongoCollection *mongo.Collection
}

func GetNewsRepo(db *mongo.Database) *NewsRepo {
	return &NewsRepo{
		MongoCollection: db.Collection(NewsCollection),
	}
}

func (r *NewsRepo) Create(ctx context.Context, news *model.News) error {
	const op = "repository.NewsRepo.Create"
	timer := utils.TrackDBOperation("insert", NewsCollection)
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, news); err != nil {
		utils.TrackError("database", "news_creation_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *NewsRepo) GetByID(ctx context.Context, id string) (*model.News, error) {
	const op = "repository.NewsRepo.GetByID"
	timer := utils.TrackDBOperation("find", NewsCollection)
	defer timer.ObserveDuration()

	var news model.News
	if err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&news); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "news_fetch_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &news, nil
}

// ListLatest returns up to limit news, newest date first.
func (r *NewsRepo) ListLatest(ctx context.Context, limit int) ([]model.News, error) {
	const op = "repository.NewsRepo.ListLatest"
	timer := utils.TrackDBOperation("find", NewsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.MongoCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.TrackError("database", "news_fetch_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	items := []model.News{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.TrackError("database", "news_decode_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

type CommentsRepo struct {
	MongoCollection *mongo.Collection
}

func GetCommentsRepo(db *mongo.Database) *CommentsRepo {
	return &CommentsRepo{
		MongoCollection: db.Collection(CommentsCollection),
	}
}

func (r *CommentsRepo) Create(ctx context.Context, comment *model.Comment) error {
	const op = "repository.CommentsRepo.Create"
	timer := utils.TrackDBOperation("insert", CommentsCollection)
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, comment); err != nil {
		utils.TrackError("database", "comment_creation_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *CommentsRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	const op = "repository.CommentsRepo.GetByID"
	timer := utils.TrackDBOperation("find", CommentsCollection)
	defer timer.ObserveDuration()

	var comment model.Comment
	if err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "comment_fetch_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &comment, nil
}

// ListByNews returns the thread of a news item, oldest first.
func (r *CommentsRepo) ListByNews(ctx context.Context, newsID string) ([]model.Comment, error) {
	const op = "repository.CommentsRepo.ListByNews"
	timer := utils.TrackDBOperation("find", CommentsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"news_id": newsID}, opts)
	if err != nil {
		utils.TrackError("database", "comment_fetch_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	comments := []model.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		utils.TrackError("database", "comment_decode_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

// Update changes the text only; news, author and creation time are fixed.
func (r *CommentsRepo) Update(ctx context.Context, comment *model.Comment) error {
	const op = "repository.CommentsRepo.Update"
	timer := utils.TrackDBOperation("update", CommentsCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": comment.ID, "author_id": comment.AuthorID},
		bson.M{"$set": bson.M{"text": comment.Text}},
	)
	if err != nil {
		utils.TrackError("database", "comment_update_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *CommentsRepo) Delete(ctx context.Context, id, authorID string) error {
	const op = "repository.CommentsRepo.Delete"
	timer := utils.TrackDBOperation("delete", CommentsCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": id, "author_id": authorID})
	if err != nil {
		utils.TrackError("database", "comment_deletion_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
