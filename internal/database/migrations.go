package database

import (
	"voxadmin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// ModelsToMigrate lists every GORM model owned by the schema.
func ModelsToMigrate() []any {
	return []any{
		&models.User{},
		&models.ModelConfig{},
		&models.UserModelPreference{},
	}
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range ModelsToMigrate() {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_model_configs_creator_sort ON model_configs(creator_id, sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_users_super_admin_created ON users(is_super_admin, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_user_model_preferences_config ON user_model_preferences(model_config_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			// Continue with other indexes even if one fails
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
