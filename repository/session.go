package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"yaapps/model"
	"yaapps/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SessionsCollection = "sessions"

// SessionCache is the optional read-through cache, see services.SessionCache.
type SessionCache interface {
	SetSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type SessionRepo struct {
	MongoCollection *mongo.Collection
	Cache           SessionCache
	log             *slog.Logger
}

// GetSessionRepo builds the repo; cache may be nil.
func GetSessionRepo(db *mongo.Database, cache SessionCache, log *slog.Logger) *SessionRepo {
	return &SessionRepo{
		MongoCollection: db.Collection(SessionsCollection),
		Cache:           cache,
		log:             log,
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	const op = "repository.SessionRepo.CreateSession"
	timer := utils.TrackDBOperation("insert", SessionsCollection)
	defer timer.ObserveDuration()

	if session == nil || session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return fmt.Errorf("%s: invalid session data: missing required fields", op)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("%s: %w", op, err)
	}

	r.cacheSet(ctx, session)
	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	const op = "repository.SessionRepo.GetSession"

	if sessionID == "" {
		return nil, model.ErrNotFound
	}

	if r.Cache != nil {
		session, err := r.Cache.GetSession(ctx, sessionID)
		if err != nil {
			utils.TrackError("cache", "session_cache_get_failed")
			r.log.Warn("session cache lookup failed", utils.Err(err))
		} else if session != nil {
			return session, nil
		}
	}

	timer := utils.TrackDBOperation("find", SessionsCollection)
	defer timer.ObserveDuration()

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "session_fetch_failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if session.IsActive {
		r.cacheSet(ctx, &session)
	}
	return &session, nil
}

func (r *SessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	const op = "repository.SessionRepo.UpdateSession"
	timer := utils.TrackDBOperation("update", SessionsCollection)
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"last_activity_at": session.LastActivityAt,
			"is_active":        session.IsActive,
			"expires_at":       session.ExpiresAt,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"session_id": session.SessionID}, update)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}

	if session.IsActive {
		r.cacheSet(ctx, session)
	} else {
		r.cacheDelete(ctx, session.SessionID)
	}
	return nil
}

// EndSession marks the session inactive; the document stays until its TTL.
func (r *SessionRepo) EndSession(ctx context.Context, sessionID string) error {
	const op = "repository.SessionRepo.EndSession"
	timer := utils.TrackDBOperation("update", SessionsCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		utils.TrackError("database", "session_end_failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	r.cacheDelete(ctx, sessionID)
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	const op = "repository.SessionRepo.CountActiveSessions"
	timer := utils.TrackDBOperation("count", SessionsCollection)
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID, "is_active": true})
	if err != nil {
		utils.TrackError("database", "session_count_failed")
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// EndLeastActiveSession ends the active session with the oldest activity.
func (r *SessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	const op = "repository.SessionRepo.EndLeastActiveSession"
	timer := utils.TrackDBOperation("find", SessionsCollection)
	defer timer.ObserveDuration()

	var oldest model.Session
	opts := options.FindOne().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID, "is_active": true}, opts).Decode(&oldest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return r.EndSession(ctx, oldest.SessionID)
}

func (r *SessionRepo) CountAllActive(ctx context.Context) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{"is_active": true})
}

func (r *SessionRepo) cacheSet(ctx context.Context, session *model.Session) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.SetSession(ctx, session); err != nil {
		utils.TrackError("cache", "session_cache_set_failed")
		r.log.Warn("failed to cache session", utils.Err(err))
	}
}

func (r *SessionRepo) cacheDelete(ctx context.Context, sessionID string) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.DeleteSession(ctx, sessionID); err != nil {
		utils.TrackError("cache", "session_cache_delete_failed")
		r.log.Warn("failed to drop cached session", utils.Err(err))
	}
}
