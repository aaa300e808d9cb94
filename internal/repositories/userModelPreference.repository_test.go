package repositories_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/testutil"
)

func TestUserModelPreferenceRepository_UpsertKeepsSingleRow(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserModelPreferenceRepository(nil)
	ctx := context.Background()

	userID := uuid.New()
	actorID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, repo.Upsert(ctx, db.SQL, &models.UserModelPreference{
		UserID:        userID,
		ModelType:     models.ModelTypeLLM,
		ModelConfigID: first,
		CreatorID:     actorID,
	}))

	original, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	require.NotNil(t, original)

	require.NoError(t, repo.Upsert(ctx, db.SQL, &models.UserModelPreference{
		UserID:        userID,
		ModelType:     models.ModelTypeLLM,
		ModelConfigID: second,
		CreatorID:     uuid.New(),
	}))

	updated, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, second, updated.ModelConfigID)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, actorID, updated.CreatorID)
	assert.True(t, original.CreatedAt.Equal(updated.CreatedAt))

	var count int64
	require.NoError(t, db.SQL.Model(&models.UserModelPreference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserModelPreferenceRepository_GetMissing(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserModelPreferenceRepository(nil)

	preference, err := repo.Get(context.Background(), db.SQL, uuid.New(), models.ModelTypeTTS)

	assert.NoError(t, err)
	assert.Nil(t, preference)
}

func TestUserModelPreferenceRepository_Delete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserModelPreferenceRepository(nil)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, db.SQL, &models.UserModelPreference{
		UserID:        userID,
		ModelType:     models.ModelTypeASR,
		ModelConfigID: uuid.New(),
	}))

	require.NoError(t, repo.Delete(ctx, db.SQL, userID, models.ModelTypeASR))
	require.NoError(t, repo.Delete(ctx, db.SQL, userID, models.ModelTypeASR), "deleting a missing row is a no-op")

	preference, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeASR)
	require.NoError(t, err)
	assert.Nil(t, preference)
}

func TestUserModelPreferenceRepository_DeleteByModelConfigID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserModelPreferenceRepository(nil)
	ctx := context.Background()
	configID := uuid.New()

	for range 2 {
		require.NoError(t, repo.Upsert(ctx, db.SQL, &models.UserModelPreference{
			UserID:        uuid.New(),
			ModelType:     models.ModelTypeVAD,
			ModelConfigID: configID,
		}))
	}

	deleted, err := repo.DeleteByModelConfigID(ctx, db.SQL, configID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteByModelConfigID(ctx, db.SQL, configID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestUserModelPreferenceRepository_DeleteForDeletedUsers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserModelPreferenceRepository(nil)
	ctx := context.Background()

	active := testutil.CreateUser(t, db, "active", false)
	removed := testutil.CreateUser(t, db, "removed", false)

	for _, userID := range []uuid.UUID{active.ID, removed.ID} {
		require.NoError(t, repo.Upsert(ctx, db.SQL, &models.UserModelPreference{
			UserID:        userID,
			ModelType:     models.ModelTypeLLM,
			ModelConfigID: uuid.New(),
		}))
	}

	require.NoError(t, db.SQL.Delete(removed).Error)

	deleted, err := repo.DeleteForDeletedUsers(ctx, db.SQL)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.Get(ctx, db.SQL, active.ID, models.ModelTypeLLM)
	require.NoError(t, err)
	assert.NotNil(t, remaining)
}
