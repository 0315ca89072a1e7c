package repository

import (
	"context"
	"errors"
	"fmt"

	"yaapps/model"
	"yaapps/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const UsersCollection = "users"

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		MongoCollection: db.Collection(UsersCollection),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	const op = "repository.UserRepo.Create"
	timer := utils.TrackDBOperation("insert", UsersCollection)
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return fmt.Errorf("%s: username and password required", op)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrUserExists
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "repository.UserRepo.FindByUsername", bson.D{{Key: "username", Value: username}})
}

func (r *UserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	return r.findOne(ctx, "repository.UserRepo.FindByID", bson.D{{Key: "user_id", Value: userID}})
}

func (r *UserRepo) findOne(ctx context.Context, op string, filter bson.D) (*model.User, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	var user model.User
	if err := r.MongoCollection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}
