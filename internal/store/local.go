package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/eyzick/harry-potter-halloween/internal/models"
)

// collectionKey is the fixed key the serialized collection lives
// under. It matches the key the original deployment used so an
// existing on-device store keeps working.
const collectionKey = "halloween-party-rsvps"

// LocalStore is the on-device fallback store: a single-table sqlite
// key-value database holding the JSON-serialized collection.
type LocalStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenLocal opens (creating if needed) the fallback database at path.
func OpenLocal(path string) (*LocalStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}

	return &LocalStore{
		db:  db,
		log: zerolog.New(os.Stdout).With().Str("component", "LocalStore").Logger(),
	}, nil
}

// Load reads the stored collection. A missing key or malformed value
// yields an empty collection, never an error the guest would see.
func (s *LocalStore) Load() ([]models.RSVPRecord, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, collectionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.RSVPRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local store: %w", err)
	}

	var records []models.RSVPRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		s.log.Warn().Err(err).Msg("Malformed local collection, starting empty")
		return []models.RSVPRecord{}, nil
	}
	if records == nil {
		records = []models.RSVPRecord{}
	}
	return records, nil
}

// Store replaces the stored collection.
func (s *LocalStore) Store(records []models.RSVPRecord) error {
	if records == nil {
		records = []models.RSVPRecord{}
	}
	value, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		collectionKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *LocalStore) Close() error {
	return s.db.Close()
}
