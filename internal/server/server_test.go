package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := New(Config{Store: st})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return ts, st
}

func TestHandleHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Post(ts.URL+"/api/health", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestHandleEvents(t *testing.T) {
	ts, st := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("GET /api/events error = %v", err)
	}
	var events []store.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	resp.Body.Close()
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}

	sess, err := st.Sessions().Start("default", 320)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := st.Events().Record(sess.ID, "DANGER", 12, 310, 240); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := st.Events().Record(sess.ID, "SAFE", 200, 120, 240); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	resp, err = ts.Client().Get(ts.URL + "/api/events?limit=1")
	if err != nil {
		t.Fatalf("GET /api/events?limit=1 error = %v", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	// Newest first.
	if events[0].State != "SAFE" {
		t.Errorf("state = %s, want SAFE", events[0].State)
	}
}

func TestHandleEvents_InvalidLimit(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/events?limit=banana")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHandleSessions(t *testing.T) {
	ts, st := newTestServer(t)

	sess, err := st.Sessions().Start("dark", 280)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := st.Sessions().End(sess.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	resp, err := ts.Client().Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	defer resp.Body.Close()

	var sessions []struct {
		ID        string  `json:"id"`
		Profile   string  `json:"profile"`
		BoundaryX int     `json:"boundary_x"`
		EndedAt   *string `json:"ended_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].Profile != "dark" || sessions[0].BoundaryX != 280 {
		t.Errorf("session = %+v", sessions[0])
	}
	if sessions[0].EndedAt == nil {
		t.Error("ended session missing ended_at")
	}
}

func TestStateEndpointAbsentWithoutApp(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d when no app is wired", resp.StatusCode, http.StatusNotFound)
	}
}
