package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Modes table - application mode definitions
		`CREATE TABLE IF NOT EXISTS modes (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Mode bindings table - gesture-to-action bindings per mode
		`CREATE TABLE IF NOT EXISTS mode_bindings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode_key TEXT NOT NULL REFERENCES modes(key) ON DELETE CASCADE,
			gesture_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('key_press', 'mouse_click')),
			key TEXT NOT NULL DEFAULT '',
			button TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			cooldown REAL NOT NULL DEFAULT 0.6,
			UNIQUE(mode_key, gesture_id)
		)`,

		// Gesture events table - log of fired gestures
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id TEXT PRIMARY KEY,
			gesture_id TEXT NOT NULL,
			mode_key TEXT NOT NULL,
			frame_count INTEGER NOT NULL DEFAULT 0,
			fired_at DATETIME NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_mode_bindings_mode_key ON mode_bindings(mode_key)`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_gesture_id ON gesture_events(gesture_id)`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_fired_at ON gesture_events(fired_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
