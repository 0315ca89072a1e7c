package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yaapps/model"
	"yaapps/utils"

	"github.com/redis/go-redis/v9"
)

// SessionCache is a read-through cache in front of the session collection.
// MongoDB stays the source of truth.
type SessionCache struct {
	client *redis.Client
}

// NewRedisClient parses the URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// SetSession caches an individual session until it expires.
func (sc *SessionCache) SetSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return errors.New("cannot cache nil session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session has already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := sc.client.Set(ctx, sessionKey(session.SessionID), data, ttl).Err(); err != nil {
		utils.TrackCacheOperation("set", "error")
		return fmt.Errorf("failed to cache session: %w", err)
	}
	utils.TrackCacheOperation("set", "ok")
	return nil
}

// GetSession returns nil, nil on a cache miss.
func (sc *SessionCache) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}

	data, err := sc.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		utils.TrackCacheOperation("get", "miss")
		return nil, nil
	}
	if err != nil {
		utils.TrackCacheOperation("get", "error")
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = sc.DeleteSession(ctx, sessionID)
		utils.TrackCacheOperation("get", "miss")
		return nil, nil
	}

	utils.TrackCacheOperation("get", "hit")
	return &session, nil
}

func (sc *SessionCache) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}
	if err := sc.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		utils.TrackCacheOperation("delete", "error")
		return fmt.Errorf("failed to delete session from cache: %w", err)
	}
	utils.TrackCacheOperation("delete", "ok")
	return nil
}
