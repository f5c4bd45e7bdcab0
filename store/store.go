// Package store persists named value snapshots in SQLite.
//
// Snapshots are the CBOR blobs produced by package wire; the store does
// not inspect them. One database holds one flat namespace of snapshots.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/tether/rt"
	"github.com/chazu/tether/wire"
)

// ErrSnapshotNotFound indicates the requested snapshot doesn't exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

var log = commonlog.GetLogger("store")

// Store handles SQLite storage for snapshots.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) a snapshot database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Create table if needed
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		saved_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists a snapshot blob under name, replacing any previous one.
func (s *Store) Save(name string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (name, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		name, data, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %q: %w", name, err)
	}
	log.Debugf("saved snapshot %q (%d bytes)", name, len(data))
	return nil
}

// Load retrieves the snapshot blob stored under name.
func (s *Store) Load(name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %q: %w", name, err)
	}
	return data, nil
}

// List returns the names of all stored snapshots.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("listing snapshots: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting snapshot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrSnapshotNotFound
	}
	return err
}

// SaveValue serializes a runtime value graph and persists it under name.
func (s *Store) SaveValue(r *rt.Runtime, name string, v rt.Value) error {
	data, err := wire.Marshal(r, v)
	if err != nil {
		return err
	}
	return s.Save(name, data)
}

// LoadValue loads and rebuilds the value graph stored under name.
// The caller owns the returned reference.
func (s *Store) LoadValue(r *rt.Runtime, name string) (rt.Value, error) {
	data, err := s.Load(name)
	if err != nil {
		return rt.Invalid, err
	}
	return wire.Unmarshal(r, data)
}
