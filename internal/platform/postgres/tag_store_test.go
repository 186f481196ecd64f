package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/postgres"
	"github.com/taskmaster/taskmaster-api/internal/store"
	"github.com/taskmaster/taskmaster-api/internal/testdb"
)

func TestPostgresTagStore_Delete(t *testing.T) {
	db := testdb.Get(t)

	t.Run("removes association rows but keeps the tasks", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.Timeout)
		defer cancel()

		userID := testdb.InsertUser(ctx, t, db)
		tagStore := postgres.NewPostgresTagStore(db, nil)
		taskStore := postgres.NewPostgresTaskStore(db, nil)

		urgent, err := domain.NewTag(userID, "urgent")
		require.NoError(t, err)
		require.NoError(t, tagStore.Create(ctx, urgent))

		home, err := domain.NewTag(userID, "home")
		require.NoError(t, err)
		require.NoError(t, tagStore.Create(ctx, home))

		task, err := domain.NewTask(userID, "Fix the gutter")
		require.NoError(t, err)
		task.TagIDs = []uuid.UUID{urgent.ID, home.ID}
		require.NoError(t, taskStore.Create(ctx, task))

		require.NoError(t, tagStore.Delete(ctx, userID, urgent.ID))

		_, err = tagStore.GetByID(ctx, userID, urgent.ID)
		assert.ErrorIs(t, err, store.ErrTagNotFound)

		survivor, err := taskStore.GetByID(ctx, userID, task.ID)
		require.NoError(t, err, "task should outlive the tag")
		assert.Equal(t, []uuid.UUID{home.ID}, survivor.TagIDs)

		var associations int
		err = db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM task_tags WHERE tag_id = $1`, urgent.ID,
		).Scan(&associations)
		require.NoError(t, err)
		assert.Zero(t, associations, "association rows should be gone")
	})

	t.Run("another user's delete leaves the tag and its associations", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.Timeout)
		defer cancel()

		ownerID := testdb.InsertUser(ctx, t, db)
		strangerID := testdb.InsertUser(ctx, t, db)
		tagStore := postgres.NewPostgresTagStore(db, nil)
		taskStore := postgres.NewPostgresTaskStore(db, nil)

		tag, err := domain.NewTag(ownerID, "errands")
		require.NoError(t, err)
		require.NoError(t, tagStore.Create(ctx, tag))

		task, err := domain.NewTask(ownerID, "Pick up groceries")
		require.NoError(t, err)
		task.TagIDs = []uuid.UUID{tag.ID}
		require.NoError(t, taskStore.Create(ctx, task))

		err = tagStore.Delete(ctx, strangerID, tag.ID)
		assert.ErrorIs(t, err, store.ErrTagNotFound)

		kept, err := taskStore.GetByID(ctx, ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{tag.ID}, kept.TagIDs)
	})
}
