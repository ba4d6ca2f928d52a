package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/effector"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ModeRepository persists application modes and their bindings.
type ModeRepository struct {
	db *sql.DB
}

// Modes returns the mode repository for this store.
func (s *Store) Modes() *ModeRepository {
	return &ModeRepository{db: s.db}
}

// Save inserts or replaces a mode and its bindings at the given
// position.
func (r *ModeRepository) Save(mode *control.Mode, position int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.Exec(
		`INSERT INTO modes (key, name, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET name = excluded.name, position = excluded.position, updated_at = excluded.updated_at`,
		mode.Key, mode.Name, position, now, now,
	)
	if err != nil {
		return fmt.Errorf("save mode %s: %w", mode.Key, err)
	}

	if _, err := tx.Exec(`DELETE FROM mode_bindings WHERE mode_key = ?`, mode.Key); err != nil {
		return err
	}

	for gestureID, b := range mode.Bindings {
		_, err = tx.Exec(
			`INSERT INTO mode_bindings (mode_key, gesture_id, action, key, button, description, cooldown)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			mode.Key, gestureID, string(b.Action), b.Key, string(b.Button), b.Description, b.CooldownSeconds,
		)
		if err != nil {
			return fmt.Errorf("save binding %s/%s: %w", mode.Key, gestureID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves one mode with its bindings.
func (r *ModeRepository) Get(key string) (*control.Mode, error) {
	mode := &control.Mode{Bindings: make(map[string]control.Binding)}

	err := r.db.QueryRow(
		`SELECT key, name FROM modes WHERE key = ?`, key,
	).Scan(&mode.Key, &mode.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadBindings(mode); err != nil {
		return nil, err
	}
	return mode, nil
}

// List retrieves all modes with their bindings, ordered by position.
func (r *ModeRepository) List() ([]*control.Mode, error) {
	rows, err := r.db.Query(`SELECT key, name FROM modes ORDER BY position, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modes []*control.Mode
	for rows.Next() {
		mode := &control.Mode{Bindings: make(map[string]control.Binding)}
		if err := rows.Scan(&mode.Key, &mode.Name); err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, mode := range modes {
		if err := r.loadBindings(mode); err != nil {
			return nil, err
		}
	}
	return modes, nil
}

// Delete removes a mode and its bindings.
func (r *ModeRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM modes WHERE key = ?`, key)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed writes the given modes only when the table is empty, so a fresh
// database starts with the stock modes without clobbering edits.
func (r *ModeRepository) Seed(modes []*control.Mode) error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM modes`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i, mode := range modes {
		if err := r.Save(mode, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *ModeRepository) loadBindings(mode *control.Mode) error {
	rows, err := r.db.Query(
		`SELECT gesture_id, action, key, button, description, cooldown
		 FROM mode_bindings WHERE mode_key = ?`,
		mode.Key,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var gestureID, action, key, button, description string
		var cooldown float64
		if err := rows.Scan(&gestureID, &action, &key, &button, &description, &cooldown); err != nil {
			return err
		}
		mode.Bindings[gestureID] = control.Binding{
			Action:          control.Action(action),
			Key:             key,
			Button:          effector.Button(button),
			Description:     description,
			CooldownSeconds: cooldown,
		}
	}
	return rows.Err()
}
