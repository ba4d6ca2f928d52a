package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// GestureEvent is one fired gesture, logged per frame.
type GestureEvent struct {
	ID         string    `json:"id"`
	GestureID  string    `json:"gesture_id"`
	ModeKey    string    `json:"mode_key"`
	FrameCount uint64    `json:"frame_count"`
	FiredAt    time.Time `json:"fired_at"`
}

// EventRepository logs fired gestures.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts one gesture event and returns it with a fresh id.
func (r *EventRepository) Record(gestureID, modeKey string, frameCount uint64, firedAt time.Time) (*GestureEvent, error) {
	e := &GestureEvent{
		ID:         uuid.New().String(),
		GestureID:  gestureID,
		ModeKey:    modeKey,
		FrameCount: frameCount,
		FiredAt:    firedAt,
	}

	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, gesture_id, mode_key, frame_count, fired_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.GestureID, e.ModeKey, e.FrameCount, e.FiredAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Recent returns the most recent events, newest first.
func (r *EventRepository) Recent(limit int) ([]*GestureEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, mode_key, frame_count, fired_at
		 FROM gesture_events ORDER BY fired_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*GestureEvent
	for rows.Next() {
		e := &GestureEvent{}
		if err := rows.Scan(&e.ID, &e.GestureID, &e.ModeKey, &e.FrameCount, &e.FiredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountByGesture returns how many times each gesture has fired.
func (r *EventRepository) CountByGesture() (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT gesture_id, COUNT(*) FROM gesture_events GROUP BY gesture_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var gestureID string
		var count int
		if err := rows.Scan(&gestureID, &count); err != nil {
			return nil, err
		}
		counts[gestureID] = count
	}
	return counts, rows.Err()
}

// Prune deletes events older than the cutoff and returns how many rows
// were removed.
func (r *EventRepository) Prune(olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM gesture_events WHERE fired_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
