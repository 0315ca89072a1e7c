package repository

import (
	"context"
	"testing"
	"time"

	"yaapps/model"
	"yaapps/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupRepoDB(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutils.SetupTestDB(t)
	require.NoError(t, SetupIndexes(context.Background(), db, testutils.Logger()))
	return db
}

func testNote(id, slug, author string, created time.Time) *model.Note {
	return &model.Note{
		ID:        id,
		Title:     "Title " + id,
		Text:      "Text",
		Slug:      slug,
		AuthorID:  author,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestNotesRepo(t *testing.T) {
	ctx := context.Background()
	repo := GetNotesRepo(setupRepoDB(t))
	base := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.Create(ctx, testNote("n2", "second", "alice", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, testNote("n1", "first", "alice", base)))
	require.NoError(t, repo.Create(ctx, testNote("n3", "third", "bob", base)))

	t.Run("duplicate slug", func(t *testing.T) {
		err := repo.Create(ctx, testNote("n4", "first", "bob", base))
		assert.ErrorIs(t, err, model.ErrSlugExists)
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("get by slug", func(t *testing.T) {
		note, err := repo.GetBySlug(ctx, "second")
		require.NoError(t, err)
		assert.Equal(t, "n2", note.ID)

		_, err = repo.GetBySlug(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("list by author oldest first", func(t *testing.T) {
		notes, err := repo.ListByAuthor(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "n1", notes[0].ID)
		assert.Equal(t, "n2", notes[1].ID)
	})

	t.Run("update filters by author", func(t *testing.T) {
		note := testNote("n1", "first-renamed", "bob", base)
		assert.ErrorIs(t, repo.Update(ctx, note), model.ErrNotFound)

		note.AuthorID = "alice"
		require.NoError(t, repo.Update(ctx, note))
		_, err := repo.GetBySlug(ctx, "first-renamed")
		require.NoError(t, err)
	})

	t.Run("update to taken slug", func(t *testing.T) {
		note := testNote("n1", "second", "alice", base)
		assert.ErrorIs(t, repo.Update(ctx, note), model.ErrSlugExists)
	})

	t.Run("delete filters by author", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "n3", "alice"), model.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, "n3", "bob"))
		assert.ErrorIs(t, repo.Delete(ctx, "n3", "bob"), model.ErrNotFound)
	})
}
