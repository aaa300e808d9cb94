// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"voxadmin/internal/database"
	"voxadmin/internal/models"
)

// NewSQLiteDB opens a migrated, isolated in-memory database without a cache.
// A single connection is used, so code under test must issue every query of a
// transaction through that transaction's handle.
func NewSQLiteDB(t *testing.T) database.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	sql, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := sql.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewWithSQL(sql)
	require.NoError(t, db.MigrateModels())

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// CreateUser inserts a user row and returns it.
func CreateUser(t *testing.T, db database.DB, username string, superAdmin bool) *models.User {
	t.Helper()

	user := &models.User{Username: username, IsSuperAdmin: superAdmin, IsActive: true}
	require.NoError(t, db.SQL.Create(user).Error)
	return user
}

// CreateModelConfig inserts a model configuration owned by creatorID.
func CreateModelConfig(
	t *testing.T,
	db database.DB,
	creatorID uuid.UUID,
	modelType models.ModelType,
	sortOrder int,
	document map[string]any,
) *models.ModelConfig {
	t.Helper()

	enabled := true
	config := &models.ModelConfig{
		ModelType:      modelType,
		ModelCode:      string(modelType) + "_code",
		ModelName:      string(modelType) + " model",
		IsEnabled:      &enabled,
		SortOrder:      sortOrder,
		ConfigDocument: document,
		CreatorID:      creatorID,
	}
	require.NoError(t, db.SQL.Create(config).Error)
	return config
}
