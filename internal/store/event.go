package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a recorded state transition.
type Event struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	State      string    `json:"state"`
	DistancePx int       `json:"distance_px"`
	CentroidX  int       `json:"centroid_x"`
	CentroidY  int       `json:"centroid_y"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventRepository provides persistence for state transition events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts a new event and returns it with a generated ID.
func (r *EventRepository) Record(sessionID, state string, distancePx, centroidX, centroidY int) (*Event, error) {
	e := &Event{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		State:      state,
		DistancePx: distancePx,
		CentroidX:  centroidX,
		CentroidY:  centroidY,
		CreatedAt:  time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, session_id, state, distance_px, centroid_x, centroid_y, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.State, e.DistancePx, e.CentroidX, e.CentroidY, e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// ListRecent returns the newest events across all sessions.
func (r *EventRepository) ListRecent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, state, distance_px, centroid_x, centroid_y, created_at
		 FROM events ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListBySession returns every event recorded for a session, oldest first.
func (r *EventRepository) ListBySession(sessionID string) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, state, distance_px, centroid_x, centroid_y, created_at
		 FROM events WHERE session_id = ? ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.SessionID, &e.State, &e.DistancePx, &e.CentroidX, &e.CentroidY, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
