package memory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database and runs migrations.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// In-memory SQLite gives every connection its own database. Pin a
	// single connection so the schema survives across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS working_notes (
			id TEXT PRIMARY KEY,
			owner_identity TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_working_notes_owner ON working_notes(owner_identity, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS voice_usage (
			subject_key TEXT PRIMARY KEY,
			count_today INTEGER NOT NULL DEFAULT 0,
			last_reset DATETIME NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, ownerIdentity, content string) error {
	if strings.TrimSpace(ownerIdentity) == "" {
		return fmt.Errorf("owner identity required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO working_notes (id, owner_identity, content, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), ownerIdentity, content, time.Now().UTC())
	return err
}

func (s *SQLiteStore) FetchRecent(ctx context.Context, ownerIdentity string, limit int) ([]WorkingNote, error) {
	if limit <= 0 {
		limit = 6
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_identity, content, created_at FROM working_notes
		 WHERE owner_identity = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		ownerIdentity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []WorkingNote
	for rows.Next() {
		var n WorkingNote
		if err := rows.Scan(&n.ID, &n.OwnerIdentity, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) EraseOwner(ctx context.Context, ownerIdentity string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM working_notes WHERE owner_identity = ?`, ownerIdentity); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM voice_usage WHERE subject_key = ?`, ownerIdentity)
	return err
}

// DB exposes the handle for stores sharing this database file.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
