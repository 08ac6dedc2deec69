// Package journal persists copy and paste events in SQLite so the last copied
// reference survives between separate CLI invocations.
package journal

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/reference"
	"git.home.luguber.info/inful/blockref/internal/retry"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MemoryPath opens a private in-memory journal.
const MemoryPath = ":memory:"

// Store is a SQLite-backed event journal. Every Store carries its own
// session id which is stamped on the events it appends.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	session string
	now     func() time.Time
	retry   retry.Policy
}

// Option configures a Store.
type Option func(*Store)

// WithRetryPolicy sets the backoff used when appends hit a locked database.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *Store) { s.retry = p }
}

// Open opens or creates the journal at dbPath, creating parent directories.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "create journal directory").
				WithContext("path", dbPath).
				Build()
		}
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		dsn += "?_pragma=busy_timeout(2000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, ErrOpenFailed.Message()).
			WithContext("path", dbPath).
			Build()
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, session: uuid.NewString(), now: time.Now, retry: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryJournal, ErrInitializeSchemaFailed.Message()).
			WithContext("path", dbPath).
			Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		document TEXT NOT NULL,
		anchor TEXT NOT NULL,
		embed INTEGER NOT NULL,
		heading INTEGER NOT NULL,
		destination TEXT NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SessionID returns the id stamped on events appended through s.
func (s *Store) SessionID() string {
	return s.session
}

// Append writes e, filling in the session id and timestamp.
func (s *Store) Append(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	return s.retry.Do(ctx, canRetry, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO events (session_id, kind, document, anchor, embed, heading, destination, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.session, string(e.Kind), e.Document, e.Anchor, e.Embed, e.Heading, e.Destination, ts,
		)
		if err == nil {
			return nil
		}
		b := errors.WrapError(err, errors.CategoryJournal, ErrAppendFailed.Message()).
			WithContext("kind", string(e.Kind))
		if isBusy(err) {
			b = b.Retryable()
		}
		return b.Build()
	})
}

// isBusy reports whether err is SQLite lock contention from another process
// sharing the journal file.
func isBusy(err error) bool {
	var serr *sqlite.Error
	if !stderrors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

func canRetry(err error) bool {
	classified, ok := errors.AsClassified(err)
	return ok && classified.CanRetry()
}

// Latest returns the target of the most recent copy event, from any session.
func (s *Store) Latest(ctx context.Context) (reference.Target, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectEvents+` WHERE kind = ? ORDER BY id DESC LIMIT 1`, string(KindCopy))
	if err != nil {
		return reference.Target{}, false, errors.WrapError(err, errors.CategoryJournal, ErrQueryFailed.Message()).Build()
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return reference.Target{}, false, err
	}
	if len(events) == 0 {
		return reference.Target{}, false, nil
	}
	return events[0].Target(), true, nil
}

// History returns up to limit events, newest first. A non-positive limit
// returns everything.
func (s *Store) History(ctx context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectEvents+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, ErrQueryFailed.Message()).Build()
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

const selectEvents = `SELECT id, session_id, kind, document, anchor, embed, heading, destination, timestamp FROM events`

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		var millis int64
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Document, &e.Anchor, &e.Embed, &e.Heading, &e.Destination, &millis); err != nil {
			return nil, errors.WrapError(err, errors.CategoryJournal, ErrQueryFailed.Message()).Build()
		}
		e.Kind = Kind(kind)
		e.Timestamp = time.UnixMilli(millis)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, ErrQueryFailed.Message()).Build()
	}
	return events, nil
}
