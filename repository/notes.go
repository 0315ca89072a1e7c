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

const NotesCollection = "notes"

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(db *mongo.Database) *NotesRepo {
	return &NotesRepo{
		MongoCollection: db.Collection(NotesCollection),
	}
}

// Create inserts a note. A taken slug surfaces as model.ErrSlugExists.
func (r *NotesRepo) Create(ctx context.Context, note *model.Note) error {
	const op = "repository.NotesRepo.Create"
	timer := utils.TrackDBOperation("insert", NotesCollection)
	defer timer.ObserveDuration()

	if note.AuthorID == "" {
		utils.TrackError("database", "missing_author_id")
		return fmt.Errorf("%s: author ID is required", op)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrSlugExists
		}
		utils.TrackError("database", "note_creation_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *NotesRepo) GetBySlug(ctx context.Context, slug string) (*model.Note, error) {
	const op = "repository.NotesRepo.GetBySlug"
	timer := utils.TrackDBOperation("find", NotesCollection)
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"slug": slug}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "note_fetch_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &note, nil
}

// ListByAuthor returns the author's notes, oldest first.
func (r *NotesRepo) ListByAuthor(ctx context.Context, authorID string) ([]model.Note, error) {
	const op = "repository.NotesRepo.ListByAuthor"
	timer := utils.TrackDBOperation("find", NotesCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"author_id": authorID}, opts)
	if err != nil {
		utils.TrackError("database", "note_fetch_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	notes := []model.Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_decode_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notes, nil
}

// Update rewrites title, text and slug. The filter includes the author so a
// foreign note is never touched.
func (r *NotesRepo) Update(ctx context.Context, note *model.Note) error {
	const op = "repository.NotesRepo.Update"
	timer := utils.TrackDBOperation("update", NotesCollection)
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":       note.ID,
		"author_id": note.AuthorID,
	}
	update := bson.M{
		"$set": bson.M{
			"title":      note.Title,
			"text":       note.Text,
			"slug":       note.Slug,
			"updated_at": note.UpdatedAt,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrSlugExists
		}
		utils.TrackError("database", "note_update_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return model.ErrNotFound
	}
	return nil
}

func (r *NotesRepo) Delete(ctx context.Context, id, authorID string) error {
	const op = "repository.NotesRepo.Delete"
	timer := utils.TrackDBOperation("delete", NotesCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": id, "author_id": authorID})
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return model.ErrNotFound
	}
	return nil
}

func (r *NotesRepo) Count(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", NotesCollection)
	defer timer.ObserveDuration()

	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}
