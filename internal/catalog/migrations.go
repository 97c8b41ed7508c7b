package catalog

// runMigrations executes all database migrations.
func (c *Catalog) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per confirmed label/count pair
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			target_count INTEGER NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Clips table - metadata for every saved clip, including the
		// quality statistics that produced its retake verdict
		`CREATE TABLE IF NOT EXISTS clips (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT REFERENCES sessions(id) ON DELETE SET NULL,
			label TEXT NOT NULL,
			clip_index INTEGER NOT NULL,
			path TEXT NOT NULL,
			frames INTEGER NOT NULL,
			fps REAL NOT NULL,
			zero_frac REAL NOT NULL,
			low_frac REAL NOT NULL,
			suggest_retake INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(label, clip_index)
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_clips_label ON clips(label)`,
		`CREATE INDEX IF NOT EXISTS idx_clips_session_id ON clips(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := c.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
