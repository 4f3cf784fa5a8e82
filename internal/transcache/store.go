package transcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
    clip_sha256 TEXT NOT NULL,
    language    TEXT NOT NULL,
    transcript  TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    PRIMARY KEY (clip_sha256, language)
);`

// Store is a sqlite-backed transcript cache. A file lock guards the cache
// directory so concurrent invocations do not share a connection.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

// Open prepares the cache directory, acquires its lock, and opens the
// database. It fails without blocking when another process holds the lock.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("transcache: cache directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, "cache.lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("cache directory %s is in use by another process", dir)
	}

	dsn := filepath.Join(dir, "transcripts.db") + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return &Store{db: db, lock: lock}, nil
}

// Get returns the cached transcript for a clip digest and language. The
// second result is false on a miss.
func (s *Store) Get(ctx context.Context, clipDigest, lang string) (string, bool, error) {
	var transcript string
	err := s.db.QueryRowContext(ctx,
		`SELECT transcript FROM transcripts WHERE clip_sha256 = ? AND language = ?`,
		clipDigest, lang,
	).Scan(&transcript)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cached transcript: %w", err)
	}
	return transcript, true, nil
}

// Put stores or replaces the transcript for a clip digest and language.
func (s *Store) Put(ctx context.Context, clipDigest, lang, transcript string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transcripts (clip_sha256, language, transcript, created_at) VALUES (?, ?, ?, ?)`,
		clipDigest, lang, transcript, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}
	return nil
}

// Close releases the database and the directory lock.
func (s *Store) Close() error {
	dbErr := s.db.Close()
	lockErr := s.lock.Unlock()
	if dbErr != nil {
		return fmt.Errorf("close cache database: %w", dbErr)
	}
	if lockErr != nil {
		return fmt.Errorf("release cache lock: %w", lockErr)
	}
	return nil
}
