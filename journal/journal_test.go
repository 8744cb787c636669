package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestRecordAndEntries(t *testing.T) {
	s, _ := openTemp(t)

	if err := s.RecordLine("hello world"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordSelection("B", false); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordSelection("ignored", true); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Entries(s.SessionID())
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		kind Kind
		text string
	}{
		{KindLine, "hello world"},
		{KindChoice, "B"},
		{KindCancelled, ""},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		e := entries[i]
		if e.Kind != w.kind || e.Text != w.text {
			t.Errorf("entry %d: expected %s %q, got %s %q", i, w.kind, w.text, e.Kind, e.Text)
		}
		if e.Session != s.SessionID() {
			t.Errorf("entry %d: wrong session %q", i, e.Session)
		}
		if e.Created.IsZero() {
			t.Errorf("entry %d: missing timestamp", i)
		}
	}
}

func TestSessionsAreSeparate(t *testing.T) {
	first, path := openTemp(t)
	first.RecordLine("one")
	first.RecordLine("two")
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	second.RecordLine("three")

	if first.SessionID() == second.SessionID() {
		t.Fatal("expected a new session id per Open")
	}

	sessions, err := second.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != first.SessionID() || sessions[0].Entries != 2 {
		t.Errorf("unexpected first session %+v", sessions[0])
	}
	if sessions[1].ID != second.SessionID() || sessions[1].Entries != 1 {
		t.Errorf("unexpected second session %+v", sessions[1])
	}

	entries, err := second.Entries(first.SessionID())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Text != "one" || entries[1].Text != "two" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestEntriesUnknownSession(t *testing.T) {
	s, _ := openTemp(t)
	entries, err := s.Entries("missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestRecordAfterClose(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordLine("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	// Second close is a no-op
	if err := s.Close(); err != nil {
		t.Errorf("expected nil on second close, got %v", err)
	}
}

func TestOpenExistingMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo", "journal.db")
	if _, err := OpenExisting(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no directory to be created, stat returned %v", err)
	}
}

func TestOpenExistingReadsOnly(t *testing.T) {
	w, path := openTemp(t)
	w.RecordLine("one")
	w.Close()

	r, err := OpenExisting(path)
	if err != nil {
		t.Fatalf("OpenExisting failed: %v", err)
	}
	defer r.Close()

	if r.SessionID() != "" {
		t.Errorf("expected no session, got %q", r.SessionID())
	}
	sessions, err := r.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != w.SessionID() {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	entries, err := r.Entries(w.SessionID())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Text != "one" {
		t.Errorf("unexpected entries %+v", entries)
	}

	if err := r.RecordLine("two"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}
