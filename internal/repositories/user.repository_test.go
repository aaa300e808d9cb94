package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/testutil"
	"voxadmin/internal/types"
)

func TestUserRepository_GetByID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserRepository(nil)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice", false)

	found, err := repo.GetByID(ctx, db.SQL, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.GetByID(ctx, db.SQL, uuid.New())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserRepository(nil)
	ctx := context.Background()

	testutil.CreateUser(t, db, "bob", false)

	found, err := repo.GetByUsername(ctx, db.SQL, "bob")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.GetByUsername(ctx, db.SQL, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_GetEarliestSuperAdmin(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserRepository(nil)
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		testutil.CreateUser(t, db, "regular", false)

		admin, err := repo.GetEarliestSuperAdmin(ctx, db.SQL)
		assert.NoError(t, err)
		assert.Nil(t, admin)
	})

	t.Run("earliest wins", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)

		later := &models.User{Username: "later", IsSuperAdmin: true}
		later.CreatedAt = base.Add(time.Minute)
		require.NoError(t, db.SQL.Create(later).Error)

		earliest := &models.User{Username: "earliest", IsSuperAdmin: true}
		earliest.CreatedAt = base
		require.NoError(t, db.SQL.Create(earliest).Error)

		admin, err := repo.GetEarliestSuperAdmin(ctx, db.SQL)
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.Equal(t, earliest.ID, admin.ID)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserRepository(nil)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "carol", false)

	require.NoError(t, repo.Delete(ctx, db.SQL, user.ID))

	_, err := repo.GetByID(ctx, db.SQL, user.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, db.SQL, user.ID), types.ErrNotFound)

	var count int64
	require.NoError(t, db.SQL.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "user row is soft deleted")
}

func TestUserRepository_CreateRejectsDuplicateUsername(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewUserRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, db.SQL, &models.User{Username: "dave"}))
	assert.Error(t, repo.Create(ctx, db.SQL, &models.User{Username: "dave"}))
}
