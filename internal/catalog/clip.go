package catalog

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Session represents a recording session stored in the database.
type Session struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	TargetCount int       `json:"target_count"`
	StartedAt   time.Time `json:"started_at"`
}

// Clip represents a saved clip's metadata stored in the database.
type Clip struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"session_id"`
	Label         string    `json:"label"`
	Index         int       `json:"index"`
	Path          string    `json:"path"`
	Frames        int       `json:"frames"`
	FPS           float64   `json:"fps"`
	ZeroFrac      float64   `json:"zero_frac"`
	LowFrac       float64   `json:"low_frac"`
	SuggestRetake bool      `json:"suggest_retake"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionRepository provides CRUD operations for recording sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this catalog.
func (c *Catalog) Sessions() *SessionRepository {
	return &SessionRepository{db: c.db}
}

// Create inserts a new session and returns its generated ID.
func (r *SessionRepository) Create(label string, targetCount int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, label, target_count) VALUES (?, ?, ?)`,
		id, label, targetCount,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	var s Session
	err := r.db.QueryRow(
		`SELECT id, label, target_count, started_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.Label, &s.TargetCount, &s.StartedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ClipRepository provides CRUD operations for clip metadata.
type ClipRepository struct {
	db *sql.DB
}

// Clips returns the clip repository for this catalog.
func (c *Catalog) Clips() *ClipRepository {
	return &ClipRepository{db: c.db}
}

// Record inserts metadata for a saved clip.
func (r *ClipRepository) Record(clip *Clip) error {
	var sessionID interface{}
	if clip.SessionID != "" {
		sessionID = clip.SessionID
	}
	_, err := r.db.Exec(
		`INSERT INTO clips (session_id, label, clip_index, path, frames, fps, zero_frac, low_frac, suggest_retake)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, clip.Label, clip.Index, clip.Path, clip.Frames, clip.FPS,
		clip.ZeroFrac, clip.LowFrac, clip.SuggestRetake,
	)
	return err
}

// Delete removes the metadata row for a clip identified by label and index.
// Used when an undo removes the clip file.
func (r *ClipRepository) Delete(label string, index int) error {
	_, err := r.db.Exec(
		`DELETE FROM clips WHERE label = ? AND clip_index = ?`,
		label, index,
	)
	return err
}

// ListByLabel retrieves all clip metadata for a label, ordered by index.
func (r *ClipRepository) ListByLabel(label string) ([]Clip, error) {
	rows, err := r.db.Query(
		`SELECT id, COALESCE(session_id, ''), label, clip_index, path, frames, fps,
		        zero_frac, low_frac, suggest_retake, created_at
		 FROM clips
		 WHERE label = ?
		 ORDER BY clip_index`,
		label,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []Clip
	for rows.Next() {
		var c Clip
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Label, &c.Index, &c.Path, &c.Frames,
			&c.FPS, &c.ZeroFrac, &c.LowFrac, &c.SuggestRetake, &c.CreatedAt); err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clips, nil
}
