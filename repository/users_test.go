package repository

import (
	"context"
	"testing"
	"time"

	"yaapps/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := GetUserRepo(setupRepoDB(t))

	user := &model.User{UserID: "u1", Username: "alice", Password: "salt$hash", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, user))

	dup := &model.User{UserID: "u2", Username: "alice", Password: "salt$hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), model.ErrUserExists)

	assert.Error(t, repo.Create(ctx, &model.User{UserID: "u3"}))

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	got, err = repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
