// Package session owns the single active workout session: in-memory
// mutations, a durable single-slot mirror, and crash recovery.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/liftlog/internal/models"
	_ "modernc.org/sqlite"
)

// Slot is the durable single-key store for the active session. One row,
// holding the full serialized session; absence means no active session.
type Slot struct {
	db *sql.DB
}

// OpenSlot opens (or creates) the SQLite slot database at dir/session.db.
func OpenSlot(dir string) (*Slot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS active_session (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		data       BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	return &Slot{db: db}, nil
}

// Save writes the full session state, replacing any previous value.
func (s *Slot) Save(w models.TrackedWorkout) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO active_session (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)`,
		data,
	)
	if err != nil {
		return fmt.Errorf("writing session slot: %w", err)
	}
	return nil
}

// Load reads the stored session. Returns (nil, nil) when the slot is
// empty; a decode failure is returned so the caller can discard the slot.
func (s *Slot) Load() (*models.TrackedWorkout, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM active_session WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session slot: %w", err)
	}

	var w models.TrackedWorkout
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding session slot: %w", err)
	}
	return &w, nil
}

// Clear empties the slot.
func (s *Slot) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM active_session WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing session slot: %w", err)
	}
	return nil
}

// Close closes the slot database.
func (s *Slot) Close() error {
	return s.db.Close()
}
