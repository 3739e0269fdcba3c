// Package gazetteer provides an offline, SQLite-backed city database.
package gazetteer

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed data/cities.csv
var seedCSV string

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cities (
	name       TEXT NOT NULL,
	name_key   TEXT NOT NULL,
	region     TEXT NOT NULL DEFAULT '',
	region_key TEXT NOT NULL DEFAULT '',
	timezone   TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	population INTEGER NOT NULL DEFAULT 0,
	UNIQUE(name_key, region_key)
);

CREATE INDEX IF NOT EXISTS idx_cities_name_key ON cities(name_key);
`

// DB wraps a sql.DB with gazetteer operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the gazetteer database, applies the schema and
// seeds it with the bundled city list when it is empty.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("gazetteer: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gazetteer: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gazetteer: apply schema: %w", err)
	}

	db := &DB{conn: conn}
	n, err := db.Count()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if n == 0 {
		if _, err := db.Import(strings.NewReader(seedCSV)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("gazetteer: seed: %w", err)
		}
	}
	return db, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Count returns the number of cities in the database.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("gazetteer: count: %w", err)
	}
	return n, nil
}

// normalize folds a user supplied name into its lookup key.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
