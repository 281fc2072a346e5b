// Package sqlstore implements the payoff repository ports on database/sql.
// The same queries run on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite);
// both accept $n placeholders.
package sqlstore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Dialect names a supported database backend
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
	dialect Dialect
	dsn     string
}

// NewPostgresDB opens and pings a PostgreSQL connection.
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=payoff sslmode=disable"
func NewPostgresDB(connectionString string) (*DB, error) {
	return open(DialectPostgres, connectionString)
}

// NewSQLiteDB opens a SQLite database file with foreign keys enforced
func NewSQLiteDB(path string) (*DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := open(DialectSQLite, dsn)
	if err != nil {
		return nil, err
	}
	// a single writer avoids SQLITE_BUSY under concurrent fetches
	db.SetMaxOpenConns(1)
	return db, nil
}

func open(dialect Dialect, dsn string) (*DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, dialect: dialect, dsn: dsn}, nil
}

// Dialect returns the backend this connection talks to
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
