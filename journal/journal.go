// Package journal records committed lines and choice results in SQLite.
//
// Each Store opened for writing gets a fresh session id, so entries from
// separate runs can be listed apart. The journal is write-behind storage only;
// it never feeds the in-memory history.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Kind classifies a journal entry.
type Kind string

const (
	KindLine      Kind = "line"      // Committed line
	KindChoice    Kind = "choice"    // Choice prompt confirmed
	KindCancelled Kind = "cancelled" // Choice prompt dismissed
)

var (
	// ErrClosed is returned when recording to a closed store.
	ErrClosed = errors.New("journal: store closed")
	// ErrReadOnly is returned when recording to a store opened by OpenExisting.
	ErrReadOnly = errors.New("journal: store opened read-only")
)

// Entry is one recorded event.
type Entry struct {
	ID      int64
	Session string
	Kind    Kind
	Text    string
	Created time.Time
}

// Session summarizes the entries of one run.
type Session struct {
	ID      string
	Entries int
	Started time.Time
}

// Store is an open journal database.
type Store struct {
	mu       sync.Mutex
	db       *sql.DB
	session  string
	closed   bool
	readOnly bool
}

// Open opens or creates the journal at path and starts a new session.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := initDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	return &Store{db: db, session: uuid.New().String()}, nil
}

// OpenExisting opens the journal at path for reading. Unlike Open it never
// creates the file or its directory and starts no session.
func OpenExisting(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}

	// mode=rw keeps sqlite from creating the file if it vanishes meanwhile
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=rw")
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	return &Store{db: db, readOnly: true}, nil
}

func initDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes ordered and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		kind TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		created INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

// SessionID returns the id entries are recorded under.
func (s *Store) SessionID() string {
	return s.session
}

// Record appends an entry to the current session.
func (s *Store) Record(kind Kind, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.readOnly {
		return ErrReadOnly
	}

	_, err := s.db.Exec(
		"INSERT INTO entries (session, kind, text, created) VALUES (?, ?, ?, ?)",
		s.session, string(kind), text, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", kind, err)
	}
	return nil
}

// RecordLine appends a committed line.
func (s *Store) RecordLine(text string) error {
	return s.Record(KindLine, text)
}

// RecordSelection appends a choice prompt result.
func (s *Store) RecordSelection(choice string, cancelled bool) error {
	if cancelled {
		return s.Record(KindCancelled, "")
	}
	return s.Record(KindChoice, choice)
}

// Entries returns the entries of session in the order they were recorded.
func (s *Store) Entries(session string) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT id, session, kind, text, created FROM entries WHERE session = ? ORDER BY id",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var created int64
		if err := rows.Scan(&e.ID, &e.Session, &kind, &e.Text, &created); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Kind = Kind(kind)
		e.Created = time.UnixMilli(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sessions lists recorded sessions, oldest first.
func (s *Store) Sessions() ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT session, COUNT(*), MIN(created)
		FROM entries
		GROUP BY session
		ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var started int64
		if err := rows.Scan(&sess.ID, &sess.Entries, &started); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sess.Started = time.UnixMilli(started)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Close closes the database. Later calls do nothing.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
