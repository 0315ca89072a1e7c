package repository

import (
	"context"
	"testing"

	"yaapps/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSetupIndexes(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, SetupIndexes(ctx, db, testutils.Logger()))
	// second run is a no-op
	require.NoError(t, SetupIndexes(ctx, db, testutils.Logger()))

	expected := map[string][]string{
		NotesCollection:    {"unique_slug", "author_notes_date"},
		NewsCollection:     {"news_date"},
		CommentsCollection: {"news_comments_created"},
		UsersCollection:    {"unique_username", "unique_user_id"},
		SessionsCollection: {"unique_session_id", "user_active_sessions", "session_ttl"},
	}

	for collection, names := range expected {
		t.Run(collection, func(t *testing.T) {
			cursor, err := db.Collection(collection).Indexes().List(ctx)
			require.NoError(t, err)
			var indexes []bson.M
			require.NoError(t, cursor.All(ctx, &indexes))

			found := make(map[string]bool)
			for _, index := range indexes {
				found[index["name"].(string)] = true
			}
			for _, name := range names {
				assert.True(t, found[name], "missing index %s", name)
			}
		})
	}
}
