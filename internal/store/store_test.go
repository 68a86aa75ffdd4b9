package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)

	if s.DB() == nil {
		t.Fatal("DB() returned nil")
	}

	// Migrations must have created the tables.
	for _, table := range []string{"sessions", "events", "settings"} {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Sessions().Start("default", 320)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session has empty ID")
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Profile != "default" || got.BoundaryX != 320 {
		t.Errorf("session = %+v, want profile=default boundary=320", got)
	}
	if got.EndedAt.Valid {
		t.Error("new session should not be ended")
	}

	if err := s.Sessions().End(sess.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	got, err = s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() after End error = %v", err)
	}
	if !got.EndedAt.Valid {
		t.Error("ended session has no end time")
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := s.Sessions().End("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("End() error = %v, want ErrNotFound", err)
	}
}

func TestEventRepository_RecordAndList(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Sessions().Start("default", 320)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	states := []struct {
		state    string
		distance int
	}{
		{"NONE", 0},
		{"SAFE", 250},
		{"WARNING", 80},
		{"DANGER", 10},
	}

	for _, st := range states {
		if _, err := s.Events().Record(sess.ID, st.state, st.distance, 300, 240); err != nil {
			t.Fatalf("Record(%s) error = %v", st.state, err)
		}
	}

	bySession, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(bySession) != 4 {
		t.Fatalf("got %d events, want 4", len(bySession))
	}
	// Oldest first.
	if bySession[0].State != "NONE" || bySession[3].State != "DANGER" {
		t.Errorf("unexpected order: first=%s last=%s", bySession[0].State, bySession[3].State)
	}

	recent, err := s.Events().ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("got %d events, want 2", len(recent))
	}
}

func TestEventRepository_CascadeDelete(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Sessions().Start("default", 320)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := s.Events().Record(sess.ID, "DANGER", 5, 318, 240); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if _, err := s.DB().Exec(`DELETE FROM sessions WHERE id = ?`, sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	events, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events after cascade delete, want 0", len(events))
	}
}
