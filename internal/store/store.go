// Package store persists thoughts in SQLite or PostgreSQL.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS thoughts (
	id            TEXT PRIMARY KEY,
	owner_id      TEXT NOT NULL,
	content       TEXT NOT NULL,
	ai_suggestion TEXT NOT NULL DEFAULT '',
	mood          TEXT NOT NULL DEFAULT 'neutral',
	tags          TEXT NOT NULL DEFAULT '[]',
	is_private    BOOLEAN NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_thoughts_owner_created ON thoughts(owner_id, created_at DESC);
`

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS thoughts (
	id            TEXT PRIMARY KEY,
	owner_id      TEXT NOT NULL,
	content       TEXT NOT NULL,
	ai_suggestion TEXT NOT NULL DEFAULT '',
	mood          TEXT NOT NULL DEFAULT 'neutral',
	tags          TEXT NOT NULL DEFAULT '[]',
	is_private    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_thoughts_owner_created ON thoughts(owner_id, created_at DESC);
`

// DB wraps a sqlx.DB with thought-specific operations.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open connects to the database and applies the schema.
func Open(driver, dsn string) (*DB, error) {
	var schema string
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
		schema = sqliteSchemaSQL
	case DriverPostgres:
		schema = postgresSchemaSQL
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return New(conn), nil
}

// New wraps an already-initialised connection. The schema is not applied.
func New(conn *sqlx.DB) *DB {
	return &DB{conn: conn, now: time.Now}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}

// timestamp returns the store clock in UTC at the precision every driver keeps.
func (db *DB) timestamp() time.Time {
	return db.now().UTC().Truncate(time.Microsecond)
}
