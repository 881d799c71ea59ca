package seen

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store records processed message IDs using SQLite. Feishu delivers events
// at least once; the store keeps redelivered messages from being moderated
// (and warned about) twice, including across restarts.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the store at dbPath
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_messages (
			message_id TEXT PRIMARY KEY,
			first_seen INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seen_messages_first_seen ON seen_messages(first_seen)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Mark records a message ID. Returns true if the ID was new.
func (s *Store) Mark(messageID string) (bool, error) {
	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO seen_messages (message_id, first_seen)
		VALUES (?, ?)
	`, messageID, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to mark message: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows > 0, nil
}

// PurgeBefore deletes records first seen before the cutoff and returns the
// number of rows removed.
func (s *Store) PurgeBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM seen_messages WHERE first_seen < ?
	`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge seen messages: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of recorded message IDs
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM seen_messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count seen messages: %w", err)
	}
	return count, nil
}
