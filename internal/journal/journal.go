// Package journal keeps a local sqlite record of every scrobble report.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

// Store persists reports to SQLite.
type Store struct {
	db *sql.DB
}

var _ scrobble.Recorder = (*Store)(nil)

// Entry is one recorded report.
type Entry struct {
	ID          string
	ScrobblerID string
	Event       string
	Songs       []scrobble.Song
	Outcome     scrobble.Outcome
	RecordedAt  time.Time
}

// Open creates or opens the journal at dbPath.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("journal path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			scrobbler_id TEXT NOT NULL,
			event TEXT NOT NULL,
			songs_json TEXT NOT NULL,
			song_count INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			recorded_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_recorded_at ON reports (recorded_at);`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate journal schema: %w", err)
		}
	}
	return nil
}

// Record stores r. It implements scrobble.Recorder.
func (s *Store) Record(ctx context.Context, r scrobble.Report) error {
	songsJSON, err := sonic.Marshal(r.Songs)
	if err != nil {
		return errors.Wrap(err, "marshal songs")
	}
	at := r.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, scrobbler_id, event, songs_json, song_count, outcome, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), r.ScrobblerID, r.Event, string(songsJSON), len(r.Songs), r.Outcome().String(), at.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scrobbler_id, event, songs_json, outcome, recorded_at
		 FROM reports ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			songsJSON  string
			outcome    string
			recordedAt int64
		)
		if err := rows.Scan(&e.ID, &e.ScrobblerID, &e.Event, &songsJSON, &outcome, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		// Skip corrupted song lists, keep the row
		_ = sonic.Unmarshal([]byte(songsJSON), &e.Songs)
		e.Outcome, _ = scrobble.ParseOutcome(outcome)
		e.RecordedAt = time.UnixMilli(recordedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return entries, nil
}

// Counts returns the number of recorded reports per outcome.
func (s *Store) Counts(ctx context.Context) (map[scrobble.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM reports GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	defer rows.Close()

	counts := make(map[scrobble.Outcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		o, _ := scrobble.ParseOutcome(outcome)
		counts[o] += n
	}
	return counts, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
