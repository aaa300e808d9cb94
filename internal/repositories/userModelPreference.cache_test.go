package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxadmin/internal/models"
	"voxadmin/internal/testutil"
)

// memoryPreferenceCache mirrors the valkey semantics in process. beforeFill
// runs once, between Get's database read and its cache fill.
type memoryPreferenceCache struct {
	entries    map[string]models.UserModelPreference
	beforeFill func()
}

func newMemoryPreferenceCache() *memoryPreferenceCache {
	return &memoryPreferenceCache{entries: map[string]models.UserModelPreference{}}
}

func (c *memoryPreferenceCache) get(
	_ context.Context,
	userID uuid.UUID,
	modelType models.ModelType,
	dest *models.UserModelPreference,
) (bool, error) {
	entry, ok := c.entries[preferenceCacheKey(userID, modelType)]
	if ok {
		*dest = entry
	}
	return ok, nil
}

func (c *memoryPreferenceCache) fill(
	_ context.Context,
	preference models.UserModelPreference,
	userID uuid.UUID,
	modelType models.ModelType,
) error {
	if hook := c.beforeFill; hook != nil {
		c.beforeFill = nil
		hook()
	}

	key := preferenceCacheKey(userID, modelType)
	if _, exists := c.entries[key]; !exists {
		c.entries[key] = preference
	}
	return nil
}

func (c *memoryPreferenceCache) store(
	_ context.Context,
	preference models.UserModelPreference,
	userID uuid.UUID,
	modelType models.ModelType,
) error {
	c.entries[preferenceCacheKey(userID, modelType)] = preference
	return nil
}

func (c *memoryPreferenceCache) clear(_ context.Context, userID uuid.UUID, modelType models.ModelType) error {
	delete(c.entries, preferenceCacheKey(userID, modelType))
	return nil
}

func newPreference(userID, configID uuid.UUID) *models.UserModelPreference {
	return &models.UserModelPreference{
		UserID:        userID,
		ModelType:     models.ModelTypeLLM,
		ModelConfigID: configID,
		CreatorID:     userID,
	}
}

func TestUserModelPreferenceRepository_SetDefaultDuringReadIsNotOverwritten(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	cache := newMemoryPreferenceCache()
	repo := newUserModelPreferenceRepository(cache)
	ctx := context.Background()

	userID := uuid.New()
	oldConfig := uuid.New()
	newConfig := uuid.New()

	require.NoError(t, repo.Upsert(ctx, db.SQL, newPreference(userID, oldConfig)))
	require.NoError(t, cache.clear(ctx, userID, models.ModelTypeLLM))

	cache.beforeFill = func() {
		require.NoError(t, repo.Upsert(ctx, db.SQL, newPreference(userID, newConfig)))
	}

	racing, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	require.NotNil(t, racing)
	assert.Equal(t, oldConfig, racing.ModelConfigID)

	current, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, newConfig, current.ModelConfigID)
}

func TestUserModelPreferenceRepository_DeleteDuringReadIsNotOverwritten(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	cache := newMemoryPreferenceCache()
	repo := newUserModelPreferenceRepository(cache)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Upsert(ctx, db.SQL, newPreference(userID, uuid.New())))
	require.NoError(t, cache.clear(ctx, userID, models.ModelTypeLLM))

	cache.beforeFill = func() {
		require.NoError(t, repo.Delete(ctx, db.SQL, userID, models.ModelTypeLLM))
	}

	racing, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	assert.NotNil(t, racing)

	current, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestUserModelPreferenceRepository_UpsertCachesStoredRow(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	cache := newMemoryPreferenceCache()
	repo := newUserModelPreferenceRepository(cache)
	ctx := context.Background()

	userID := uuid.New()
	second := uuid.New()
	require.NoError(t, repo.Upsert(ctx, db.SQL, newPreference(userID, uuid.New())))

	var stored models.UserModelPreference
	require.NoError(t, db.SQL.Where("user_id = ?", userID).First(&stored).Error)

	require.NoError(t, repo.Upsert(ctx, db.SQL, newPreference(userID, second)))

	cached, ok := cache.entries[preferenceCacheKey(userID, models.ModelTypeLLM)]
	require.True(t, ok)
	assert.Equal(t, stored.ID, cached.ID)
	assert.Equal(t, second, cached.ModelConfigID)
}

func TestUserModelPreferenceRepository_MissIsCached(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	cache := newMemoryPreferenceCache()
	repo := newUserModelPreferenceRepository(cache)
	ctx := context.Background()

	userID := uuid.New()
	missing, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	assert.Nil(t, missing)

	tombstone, ok := cache.entries[preferenceCacheKey(userID, models.ModelTypeLLM)]
	require.True(t, ok)
	assert.Equal(t, uuid.Nil, tombstone.ID)

	configID := uuid.New()
	require.NoError(t, repo.Upsert(ctx, db.SQL, newPreference(userID, configID)))

	found, err := repo.Get(ctx, db.SQL, userID, models.ModelTypeLLM)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, configID, found.ModelConfigID)
}
