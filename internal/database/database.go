package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"voxadmin/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	slowQuery       = time.Second
)

type CacheClient valkey.Client

// Cache holds one client per valkey logical database. Nil clients mean the
// cache is disabled; every consumer treats that as a permanent miss.
type Cache struct {
	User   CacheClient
	Events CacheClient
}

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(cfg config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	sql, err := openPostgres(cfg, log)
	if err != nil {
		return DB{}, log.Err("failed to open database", err)
	}

	db := NewWithSQL(sql)
	if err := db.initializeCacheDB(cfg); err != nil {
		_ = db.Close()
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return db, nil
}

// NewWithSQL wraps an already opened connection without a cache.
func NewWithSQL(sql *gorm.DB) DB {
	return DB{SQL: sql, log: logger.New("database")}
}

// PostgresDSN builds the libpq connection string shared by GORM and sql-migrate.
func PostgresDSN(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseName,
	)
}

func openPostgres(cfg config.Config, log logger.Logger) (*gorm.DB, error) {
	log = log.Function("openPostgres")

	if cfg.DatabaseHost == "" || cfg.DatabaseName == "" || cfg.DatabaseUser == "" {
		return nil, log.Error(
			"database host, name and user are required",
			"host", cfg.DatabaseHost,
			"name", cfg.DatabaseName,
		)
	}

	sqlLogger := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		gormLogger.Config{
			SlowThreshold:             slowQuery,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		},
	)

	log.Info("Connecting to PostgreSQL", "host", cfg.DatabaseHost, "database", cfg.DatabaseName)
	sql, err := gorm.Open(postgres.Open(PostgresDSN(cfg)), &gorm.Config{
		Logger:                 sqlLogger,
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, log.Err("failed to connect to PostgreSQL", err)
	}

	pool, err := sql.DB()
	if err != nil {
		return nil, log.Err("failed to access connection pool", err)
	}
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connMaxLifetime)

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, log.Err("failed to ping PostgreSQL", err)
	}

	return sql, nil
}

// Ping checks the SQL connection. Cache health is not included: the service
// runs correctly without a cache.
func (s *DB) Ping(ctx context.Context) error {
	if s.SQL == nil {
		return fmt.Errorf("database not initialized")
	}

	pool, err := s.SQL.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) Close() (err error) {
	s.closeCache()

	if s.SQL == nil {
		return nil
	}

	pool, err := s.SQL.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
