package modelConfigController

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxadmin/config"
	"voxadmin/internal/database"
	"voxadmin/internal/events"
	"voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"
	"voxadmin/internal/testutil"
	"voxadmin/internal/types"
)

type fixture struct {
	db         database.DB
	controller ModelConfigControllerInterface
	owner      *models.User
	stranger   *models.User
	admin      *models.User
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	repos := repositories.New(db)
	cfg := config.Config{JWTSecret: "0123456789abcdef", JWTTTLHours: 1}
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	return fixture{
		db:         db,
		controller: New(repos, services.New(db, repos, cfg, bus), bus, cfg, db),
		owner:      testutil.CreateUser(t, db, "owner", false),
		stranger:   testutil.CreateUser(t, db, "stranger", false),
		admin:      testutil.CreateUser(t, db, "admin", true),
	}
}

func ptr[T any](v T) *T { return &v }

func TestModelConfigController_CreateAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.controller.Create(ctx, f.owner, models.ModelTypeLLM, models.ModelConfigRequest{
		ModelCode:      " OpenAI ",
		ModelName:      "GPT",
		SortOrder:      ptr(5),
		ConfigDocument: map[string]any{"api_key": "sk"},
	})
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, created.CreatorID)
	assert.Equal(t, "OpenAI", created.ModelCode)
	require.NotNil(t, created.IsEnabled)
	assert.True(t, *created.IsEnabled)

	fetched, err := f.controller.Get(ctx, f.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "sk", fetched.ConfigDocument["api_key"])
	assert.Equal(t, 5, fetched.SortOrder)
}

func TestModelConfigController_CreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.controller.Create(ctx, f.owner, models.ModelType("GPU"), models.ModelConfigRequest{
		ModelCode: "x",
		ModelName: "y",
	})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = f.controller.Create(ctx, f.owner, models.ModelTypeLLM, models.ModelConfigRequest{ModelCode: "x"})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestModelConfigController_OwnershipScoping(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	config := testutil.CreateModelConfig(t, f.db, f.owner.ID, models.ModelTypeTTS, 0, nil)

	_, err := f.controller.Get(ctx, f.stranger, config.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = f.controller.Update(ctx, f.stranger, config.ID, models.ModelConfigRequest{ModelName: "stolen"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, f.controller.Delete(ctx, f.stranger, config.ID), types.ErrNotFound)
	assert.ErrorIs(t, f.controller.SetEnabled(ctx, f.stranger, config.ID, false), types.ErrNotFound)

	_, err = f.controller.SetDefaultModel(ctx, f.stranger, config.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	adminView, err := f.controller.Get(ctx, f.admin, config.ID)
	require.NoError(t, err)
	assert.Equal(t, config.ID, adminView.ID)
}

func TestModelConfigController_List(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.CreateModelConfig(t, f.db, f.owner.ID, models.ModelTypeLLM, 2, nil)
	testutil.CreateModelConfig(t, f.db, f.owner.ID, models.ModelTypeLLM, 1, nil)
	testutil.CreateModelConfig(t, f.db, f.stranger.ID, models.ModelTypeLLM, 0, nil)

	owned, err := f.controller.List(ctx, f.owner, models.ModelTypeLLM, "")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, 1, owned[0].SortOrder)

	all, err := f.controller.List(ctx, f.admin, models.ModelTypeLLM, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.controller.List(ctx, f.owner, "", "")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestModelConfigController_UpdateKeepsTypeAndOwner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	config := testutil.CreateModelConfig(t, f.db, f.owner.ID, models.ModelTypeASR, 0, map[string]any{"a": "1"})

	updated, err := f.controller.Update(ctx, f.owner, config.ID, models.ModelConfigRequest{
		ModelName:      "renamed",
		IsEnabled:      ptr(false),
		ConfigDocument: map[string]any{"b": "2"},
		Remark:         ptr("note"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.ModelName)
	assert.Equal(t, config.ModelCode, updated.ModelCode)
	assert.Equal(t, models.ModelTypeASR, updated.ModelType)
	assert.Equal(t, f.owner.ID, updated.CreatorID)

	stored, err := f.controller.Get(ctx, f.owner, config.ID)
	require.NoError(t, err)
	assert.False(t, *stored.IsEnabled)
	assert.Equal(t, "note", stored.Remark)
	assert.Equal(t, "2", stored.ConfigDocument["b"])
	assert.NotContains(t, stored.ConfigDocument, "a")
}

func TestModelConfigController_DefaultModelLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	config := testutil.CreateModelConfig(t, f.db, f.owner.ID, models.ModelTypeLLM, 0, nil)

	empty, err := f.controller.GetDefaultModel(ctx, f.owner, models.ModelTypeLLM)
	require.NoError(t, err)
	assert.Nil(t, empty.ModelConfigID)
	assert.Nil(t, empty.Config)

	set, err := f.controller.SetDefaultModel(ctx, f.owner, config.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ModelTypeLLM, set.ModelType)

	current, err := f.controller.GetDefaultModel(ctx, f.owner, models.ModelTypeLLM)
	require.NoError(t, err)
	require.NotNil(t, current.ModelConfigID)
	assert.Equal(t, config.ID, *current.ModelConfigID)
	require.NotNil(t, current.Config)
	assert.Equal(t, config.ModelName, current.Config.ModelName)

	require.NoError(t, f.controller.ClearDefaultModel(ctx, f.owner, models.ModelTypeLLM))
	cleared, err := f.controller.GetDefaultModel(ctx, f.owner, models.ModelTypeLLM)
	require.NoError(t, err)
	assert.Nil(t, cleared.ModelConfigID)
}

func TestModelConfigController_DeleteClearsPreferences(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	config := testutil.CreateModelConfig(t, f.db, f.owner.ID, models.ModelTypeVAD, 0, nil)

	_, err := f.controller.SetDefaultModel(ctx, f.owner, config.ID)
	require.NoError(t, err)

	require.NoError(t, f.controller.Delete(ctx, f.owner, config.ID))

	current, err := f.controller.GetDefaultModel(ctx, f.owner, models.ModelTypeVAD)
	require.NoError(t, err)
	assert.Nil(t, current.ModelConfigID)

	_, err = f.controller.Get(ctx, f.owner, config.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestModelConfigController_DanglingDefault(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	missing := uuid.New()

	require.NoError(t, repositories.NewUserModelPreferenceRepository(nil).Upsert(ctx, f.db.SQL,
		&models.UserModelPreference{UserID: f.owner.ID, ModelType: models.ModelTypeTTS, ModelConfigID: missing}))

	current, err := f.controller.GetDefaultModel(ctx, f.owner, models.ModelTypeTTS)
	require.NoError(t, err)
	require.NotNil(t, current.ModelConfigID)
	assert.Equal(t, missing, *current.ModelConfigID)
	assert.Nil(t, current.Config)
}

func TestModelConfigController_SetEnabled(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	config := testutil.CreateModelConfig(t, f.db, f.owner.ID, models.ModelTypeIntent, 0, nil)

	require.NoError(t, f.controller.SetEnabled(ctx, f.owner, config.ID, false))

	stored, err := f.controller.Get(ctx, f.owner, config.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.IsEnabled)
	assert.False(t, *stored.IsEnabled)
}
