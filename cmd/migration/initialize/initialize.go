package initialize

import (
	"strings"
	"voxadmin/config"
	. "voxadmin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// InitializeTables creates the data a fresh deployment cannot run without:
// a super admin whose configurations new users are bootstrapped from.
func InitializeTables(db *gorm.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeSuperAdmin(db, cfg, log); err != nil {
		return log.Err("failed to initialize super admin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeSuperAdmin(db *gorm.DB, cfg config.Config, log logger.Logger) error {
	var count int64
	if err := db.Model(&User{}).Where("is_super_admin = ?", true).Count(&count).Error; err != nil {
		return log.Err("failed to count super admins", err)
	}

	if count > 0 {
		log.Debug("Super admin already exists", "count", count)
		return nil
	}

	username := strings.TrimSpace(cfg.SeedAdminUsername)
	if username == "" {
		username = config.DefaultSeedAdminUsername
	}

	admin := User{
		Username:     username,
		DisplayName:  "Administrator",
		IsSuperAdmin: true,
		IsActive:     true,
	}

	log.Info("Creating super admin", "username", username)
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create super admin", err, "username", username)
	}

	return nil
}
