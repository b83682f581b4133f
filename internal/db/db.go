package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Supported database/sql driver names
const (
	DriverCgo    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// FileName is the database file inside the data directory
const FileName = "studyhub.db"

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx so reads can run inside
// a read-modify-write transaction
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// New opens (creating if needed) the database in dataDir and initializes the schema
func New(dataDir, driver string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return Open(filepath.Join(dataDir, FileName), driver)
}

// Open opens the database file at path with the given driver
func Open(path, driver string) (*DB, error) {
	dsn, err := dataSourceName(path, driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db}, nil
}

// dataSourceName turns on foreign keys and makes every transaction take the
// write lock up front, so a read-modify-write cannot lose an update.
func dataSourceName(path, driver string) (string, error) {
	switch driver {
	case DriverCgo, "":
		return path + "?_foreign_keys=on&_txlock=immediate&_busy_timeout=5000", nil
	case DriverPureGo:
		return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", nil
	}
	return "", fmt.Errorf("unsupported driver %q: must be %s or %s", driver, DriverCgo, DriverPureGo)
}

// withTx runs fn in a transaction, committing on success
func (db *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
