package db

import (
	"fmt"
	"strings"

	"github.com/GGCryptoh/jarvis-inc/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a MySQL DSN. Times are parsed into time.Time and kept in UTC.
func DSN(user, password, host string, port int, database string) string {
	cred := user
	if password != "" {
		cred += ":" + password
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC", cred, host, port, database)
}

// Connect opens a GORM connection to the store described by cfg.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.Path)
	case "mysql", "":
		dsn := DSN(cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}

// ConnectAdmin opens a GORM connection to the MySQL server without selecting
// a specific database, used for CREATE DATABASE operations.
func ConnectAdmin(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := DSN(cfg.User, cfg.Password, cfg.Host, cfg.Port, "")
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: admin connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// CreateDatabase creates the named database if it doesn't already exist.
func CreateDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}

// sqliteBusyTimeoutMS bounds how long a writer waits for the write lock.
const sqliteBusyTimeoutMS = 5000

// OpenSQLite opens a SQLite-backed store at path. File databases run in WAL
// mode with a connection pool, so reads proceed alongside a writer. An
// in-memory database lives on a single connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	memory := isMemoryPath(path)
	dsn := path
	if !memory {
		dsn = sqliteDSN(path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite %s: %w", path, err)
	}
	if memory {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqliteDSN adds WAL journaling and a busy timeout to a file path.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_journal_mode=WAL&_busy_timeout=%d", path, sep, sqliteBusyTimeoutMS)
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory")
}

// OpenMemory opens an empty, migrated in-memory SQLite store. Every call
// returns an independent database.
func OpenMemory() (*gorm.DB, error) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
