package sync

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	keyDeviceID = "device_id"
	keyLastSync = "last_sync"
)

// StateDB persists the client's sync bookkeeping: a device identifier
// generated once, and the last successful sync timestamp.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/sync.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sync state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "sync.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sync state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sync_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sync state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// DeviceID returns the persisted device identifier, generating and
// storing one on first use.
func (s *StateDB) DeviceID() (string, error) {
	id, err := s.get(keyDeviceID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := s.set(keyDeviceID, id); err != nil {
		return "", fmt.Errorf("saving device id: %w", err)
	}
	return id, nil
}

// LastSync returns the last successful sync time, or nil if never synced.
func (s *StateDB) LastSync() (*time.Time, error) {
	raw, err := s.get(keyLastSync)
	if err != nil || raw == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("parsing last sync time: %w", err)
	}
	return &t, nil
}

// SetLastSync advances the last successful sync time.
func (s *StateDB) SetLastSync(t time.Time) error {
	return s.set(keyLastSync, t.Format(time.RFC3339Nano))
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

func (s *StateDB) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading sync state %s: %w", key, err)
	}
	return value, nil
}

func (s *StateDB) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sync_state (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("writing sync state %s: %w", key, err)
	}
	return nil
}
