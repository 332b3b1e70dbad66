package voice

import (
	"context"
	"database/sql"
	"time"
)

// SQLiteQuotaStore keeps voice usage in the voice_usage table created by the
// memory store migrations. Rollover and increment are guarded UPDATEs, so
// the check-then-increment race of a naive read/write pair cannot overrun
// the daily ceiling.
type SQLiteQuotaStore struct {
	db *sql.DB
}

func NewSQLiteQuotaStore(db *sql.DB) *SQLiteQuotaStore {
	return &SQLiteQuotaStore{db: db}
}

func (s *SQLiteQuotaStore) Allow(ctx context.Context, subjectKey string, limit int, now time.Time) (bool, error) {
	now = now.UTC()
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO voice_usage (subject_key, count_today, last_reset) VALUES (?, 0, ?)`,
		subjectKey, now); err != nil {
		return false, err
	}
	// Lazy rollover: reset only when the stored window has fully elapsed.
	if _, err := s.db.ExecContext(ctx,
		`UPDATE voice_usage SET count_today = 0, last_reset = ?
		 WHERE subject_key = ? AND last_reset < ?`,
		now, subjectKey, now.Add(-Window)); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE voice_usage SET count_today = count_today + 1
		 WHERE subject_key = ? AND count_today < ?`,
		subjectKey, limit)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

var _ QuotaStore = (*SQLiteQuotaStore)(nil)
