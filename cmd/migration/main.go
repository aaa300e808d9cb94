package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"voxadmin/cmd/migration/initialize"
	"voxadmin/cmd/migration/seed"
	"voxadmin/config"
	"voxadmin/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

const (
	MIGRATION_PATH = "cmd/migration/migrations"
	MIGRATION_DB   = "postgres"
)

// Trigram index backing the case-insensitive model name search. Needs pg_trgm.
const modelNameSearchIndex = "CREATE INDEX IF NOT EXISTS idx_model_configs_name_trgm " +
	"ON model_configs USING gin (LOWER(model_name) gin_trgm_ops)"

func main() {
	log := logger.New("migrations")
	log = log.Function("main")

	cfg, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	migrationType := "up"
	if len(os.Args) > 1 {
		migrationType = os.Args[1]
	}

	switch migrationType {
	case "up":
		err = migrateUp(db, cfg, log)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				log.Er("failed to parse step", err)
				os.Exit(1)
			}
		}
		err = migrateDown(steps, cfg, log)
	case "seed":
		err = migrateSeed(db, cfg, log)
	default:
		err = log.Error("unknown migration type", "type", migrationType)
	}

	if err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	log.Info("Migrations complete")
}

func migrateUp(db database.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("migrateUp")
	log.Info("Running migrations up")

	if err := runMigrations(cfg, log, migrate.Up, 0); err != nil {
		return log.Err("failed to run migrations", err)
	}

	if err := db.MigrateModels(); err != nil {
		return log.Err("failed to auto migrate", err)
	}

	if err := db.CreateIndexes(); err != nil {
		return log.Err("failed to create indexes", err)
	}

	if err := db.SQL.Exec(modelNameSearchIndex).Error; err != nil {
		log.Warn("Failed to create model name search index", "error", err)
	}

	if err := initialize.InitializeTables(db.SQL, cfg, log); err != nil {
		return log.Err("failed to initialize tables", err)
	}

	return nil
}

func migrateDown(steps int, cfg config.Config, log logger.Logger) error {
	log = log.Function("migrateDown")
	log.Info("Running migrations down", "steps", steps)

	if steps <= 0 {
		return log.Error("steps must be positive", "steps", steps)
	}

	return runMigrations(cfg, log, migrate.Down, steps)
}

func migrateSeed(db database.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("migrateSeed")
	log.Info("Running seed")

	if err := cleanDatabase(db.SQL, log); err != nil {
		return log.Err("failed to clean database", err)
	}

	if err := db.FlushAllCaches(); err != nil {
		return log.Err("failed to flush cache databases", err)
	}

	if err := migrateUp(db, cfg, log); err != nil {
		return log.Err("failed to migrate", err)
	}

	log.Info("Seeding database")
	if err := seed.Seed(db, cfg, log); err != nil {
		return log.Err("failed to seed database", err)
	}

	return nil
}

// runMigrations applies up to limit file migrations in direction; 0 means all.
func runMigrations(
	cfg config.Config,
	log logger.Logger,
	direction migrate.MigrationDirection,
	limit int,
) error {
	log = log.Function("runMigrations")

	files, err := filepath.Glob(filepath.Join(MIGRATION_PATH, "*.sql"))
	if err != nil {
		return log.Err("failed to list migration files", err)
	}
	if len(files) == 0 {
		log.Info("No migration files found, skipping file-based migrations", "path", MIGRATION_PATH)
		return nil
	}

	conn, err := sql.Open(MIGRATION_DB, database.PostgresDSN(cfg))
	if err != nil {
		return log.Err("failed to open database for migrations", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			log.Er("failed to close migration connection", closeErr)
		}
	}()

	source := &migrate.FileMigrationSource{Dir: MIGRATION_PATH}
	applied, err := migrate.ExecMax(conn, MIGRATION_DB, source, direction, limit)
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}

	log.Info("File migrations applied", "count", applied)
	return nil
}

func cleanDatabase(db *gorm.DB, log logger.Logger) error {
	log = log.Function("cleanDatabase")
	log.Info("Cleaning database before seeding")

	if err := db.Migrator().DropTable(database.ModelsToMigrate()...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	log.Info("Database cleaned successfully")
	return nil
}
