// Package database opens the GORM connection shared by the storage modules.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/config"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqliteDriverName is go-sqlite3 with lower() replaced by a Unicode-aware
// version. The built-in one folds ASCII only.
const sqliteDriverName = "sqlite3_unicode"

var registerSQLite sync.Once

func sqliteDriver() string {
	registerSQLite.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", strings.ToLower, true)
			},
		})
	})
	return sqliteDriverName
}

// Config selects and locates the database.
type Config struct {
	Driver string
	// Path is the SQLite file (or ":memory:").
	Path string
	// DSN is the Postgres connection string.
	DSN   string
	Debug bool
}

// LoadConfig reads DB_DRIVER, DB_PATH, DATABASE_URL and DB_DEBUG.
func LoadConfig() Config {
	return Config{
		Driver: config.GetEnvAsString("DB_DRIVER", DriverSQLite),
		Path:   config.GetEnvAsString("DB_PATH", "studyhub.db"),
		DSN:    config.GetEnvAsString("DATABASE_URL", ""),
		Debug:  config.GetEnvAsBool("DB_DEBUG", false),
	}
}

// Describe returns a log-safe description of the target database.
func (c Config) Describe() string {
	if c.Driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite:" + c.Path
}

// Open connects to the configured database.
func Open(cfg Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.New(sqlite.Config{
			DriverName: sqliteDriver(),
			DSN:        cfg.Path,
		})
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.Driver)
		}
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	if cfg.Driver == DriverPostgres {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else if cfg.Path == ":memory:" {
		// Every new connection would see a fresh in-memory database.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// OpenAndMigrate opens the database and migrates the given models.
func OpenAndMigrate(cfg Config, models ...any) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(models...); err != nil {
		Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool, logging failures.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("[database] Error closing connection: %v", err)
	}
}
