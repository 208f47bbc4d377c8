package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
	_ "modernc.org/sqlite"
)

const (
	// DriverSQLCipher is the driver name registered by go-sqlcipher
	DriverSQLCipher = "sqlite3"
	// DriverSQLite is the driver name registered by modernc.org/sqlite
	DriverSQLite = "sqlite"
)

type DB struct {
	*sql.DB
	driver string
	dsn    string
}

// OpenEncrypted opens an encrypted SQLite database with the given password.
// dbPath is the full path to the database file.
func OpenEncrypted(dbPath, password string) (*DB, error) {
	if password == "" {
		return nil, fmt.Errorf("encrypted database requires a password")
	}
	return open(DriverSQLCipher, dbPath, encryptedDSN(dbPath, password))
}

// encryptedDSN builds the go-sqlcipher connection string; the key is query-escaped
// so passwords containing '&', '#' or '?' survive parsing.
func encryptedDSN(dbPath, password string) string {
	return fmt.Sprintf("%s?_key=%s", dbPath, url.QueryEscape(password))
}

// OpenPlain opens an unencrypted SQLite database using the pure-Go driver
func OpenPlain(dbPath string) (*DB, error) {
	return open(DriverSQLite, dbPath, dbPath)
}

func open(driver, dbPath, dsn string) (*DB, error) {
	// Create parent directories if they don't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; pragmas below then apply to every statement
	sqlDB.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent performance
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Ping to verify connection (and the key, for encrypted databases)
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &DB{DB: sqlDB, driver: driver, dsn: dsn}
	if err := database.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return database, nil
}

// Driver returns the database/sql driver name backing this database
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
