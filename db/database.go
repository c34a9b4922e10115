package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"techsupport_pro_go/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is nil when the app runs without a lead store
var DB *gorm.DB

// Initialize opens the lead database. Turso (libSQL over HTTP) is used when
// TURSO_DATABASE_URL is set, otherwise a local SQLite file in WAL mode.
func Initialize(cfg *config.Config, log *zap.Logger) error {
	if !cfg.DatabaseConfigured() {
		log.Warn("Database disabled, contact submissions will not be stored")
		return nil
	}

	// Determine log level based on environment
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var (
		conn *gorm.DB
		err  error
	)
	if cfg.TursoDatabaseURL != "" {
		dsn, dsnErr := TursoDSN(cfg.TursoDatabaseURL, cfg.TursoAuthToken)
		if dsnErr != nil {
			return dsnErr
		}
		conn, err = gorm.Open(sqlite.New(sqlite.Config{DriverName: "libsql", DSN: dsn}), gormCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to turso: %w", err)
		}
		log.Info("Database connection established (Turso)")
	} else {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}

		// Enable WAL mode for better concurrency support
		conn, err = gorm.Open(sqlite.Open(cfg.DBPath+"?_journal_mode=WAL"), gormCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established (WAL mode enabled)", zap.String("path", cfg.DBPath))
	}

	DB = conn
	return nil
}

// TursoDSN appends the auth token to a libsql:// database URL
func TursoDSN(databaseURL, authToken string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid TURSO_DATABASE_URL: %w", err)
	}
	if authToken != "" {
		q := u.Query()
		q.Set("authToken", authToken)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Ping checks that the database still answers
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
