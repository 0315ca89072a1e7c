package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"yaapps/model"
	"yaapps/services"
	"yaapps/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	repo := GetSessionRepo(setupRepoDB(t), nil, testutils.Logger())
	now := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateSession(ctx, &model.Session{
			SessionID:      fmt.Sprintf("s%d", i),
			UserID:         "alice",
			CreatedAt:      now,
			ExpiresAt:      now.Add(time.Hour),
			LastActivityAt: now.Add(time.Duration(i) * time.Minute),
			IsActive:       true,
		}))
	}

	count, err := repo.CountActiveSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, repo.EndLeastActiveSession(ctx, "alice"))
	ended, err := repo.GetSession(ctx, "s0")
	require.NoError(t, err)
	assert.False(t, ended.IsActive)

	count, err = repo.CountActiveSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	session, err := repo.GetSession(ctx, "s1")
	require.NoError(t, err)
	session.LastActivityAt = now.Add(time.Hour)
	require.NoError(t, repo.UpdateSession(ctx, session))

	_, err = repo.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Error(t, repo.CreateSession(ctx, &model.Session{}))
}

func TestSessionRepoWithCache(t *testing.T) {
	ctx := context.Background()
	cache := services.NewSessionCache(testutils.SetupTestRedis(t))
	repo := GetSessionRepo(setupRepoDB(t), cache, testutils.Logger())
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.CreateSession(ctx, &model.Session{
		SessionID:      "cached",
		UserID:         "bob",
		Username:       "bob",
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Hour),
		LastActivityAt: now,
		IsActive:       true,
	}))

	cached, err := cache.GetSession(ctx, "cached")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "bob", cached.Username)

	require.NoError(t, repo.EndSession(ctx, "cached"))
	cached, err = cache.GetSession(ctx, "cached")
	require.NoError(t, err)
	assert.Nil(t, cached)

	stored, err := repo.GetSession(ctx, "cached")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	total, err := repo.CountAllActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}
