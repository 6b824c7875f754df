package database

import (
	"database/sql"
	"errors"
	"fmt"

	"ato_builder/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no ATO has the requested identity
	ErrNotFound = errors.New("ato not found")
	// ErrNoIdentity is returned when storing an ATO without an identity
	ErrNoIdentity = errors.New("ato has no identity")
)

func checkIdentities(atos []models.ATO) error {
	for _, ato := range atos {
		if ato.ID == "" {
			return fmt.Errorf("%w: %q", ErrNoIdentity, ato.Name)
		}
	}
	return nil
}

// Repository stores ATOs by identity in their canonical dictionary form.
// LoadAll returns documents in insertion order; upserting an existing identity
// keeps its position.
type Repository interface {
	LoadAll() ([]models.ATO, error)
	Get(id string) (models.ATO, error)
	Upsert(ato models.ATO) error
	UpsertBatch(atos []models.ATO) error
	Delete(id string) error
	Close() error
}

// Backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the repository for backend
func Open(backend, jsonPath, sqlitePath string) (Repository, error) {
	switch backend {
	case BackendJSON:
		return NewJSONRepository(jsonPath), nil
	case BackendSQLite:
		db, err := New(sqlitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// DB implements the Repository interface using SQLite
type DB struct {
	db *sql.DB
}

// New creates and initializes a new database connection
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// optimizeSQLite applies pragmas for a single local writer
func optimizeSQLite(db *sql.DB) error {
	// WAL lets the CLI read while the daemon writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the database schema if it doesn't exist
func (d *DB) initSchema() error {
	// seq keeps insertion order across upserts
	atosSchema := `CREATE TABLE IF NOT EXISTS atos (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		schema_version TEXT NOT NULL,
		document TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_atos_name ON atos(name)`,
	}

	if _, err := d.db.Exec(atosSchema); err != nil {
		return fmt.Errorf("failed to create atos table: %w", err)
	}

	for _, idx := range indexes {
		if _, err := d.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
