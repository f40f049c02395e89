package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

const recordingColumns = `id, note_id, title, created_at, updated_at, started_at, ended_at, transcript`

// UpsertRecording inserts or updates a recording. A recording referencing
// a note that is not present locally is skipped and (false, nil) is
// returned; recordings with no note link are stored as-is. The transcript
// follows the coalescing rule and is never replaced by an absence.
func (s *Store) UpsertRecording(r *models.Recording) (bool, error) {
	if r.NoteID != nil {
		var exists int
		err := s.db.QueryRow(`SELECT 1 FROM notes WHERE id = ?`, *r.NoteID).Scan(&exists)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("check note %q: %w", *r.NoteID, err)
		}
	}

	var transcript sql.NullString
	if r.Transcript != nil {
		data, err := json.Marshal(r.Transcript)
		if err != nil {
			return false, fmt.Errorf("marshal transcript for %q: %w", r.ID, err)
		}
		transcript = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO recordings (`+recordingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			note_id    = COALESCE(excluded.note_id, recordings.note_id),
			title      = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			started_at = COALESCE(excluded.started_at, recordings.started_at),
			ended_at   = COALESCE(excluded.ended_at, recordings.ended_at),
			transcript = COALESCE(excluded.transcript, recordings.transcript)`,
		r.ID, nullStr(r.NoteID), r.Title, r.CreatedAt, r.UpdatedAt,
		nullStr(r.StartedAt), nullStr(r.EndedAt), transcript,
	)
	if err != nil {
		return false, fmt.Errorf("upsert recording %q: %w", r.ID, err)
	}
	return true, nil
}

// GetRecording looks up a recording by id. Returns (nil, nil) when absent.
func (s *Store) GetRecording(id string) (*models.Recording, error) {
	row := s.db.QueryRow(`SELECT `+recordingColumns+` FROM recordings WHERE id = ?`, id)
	return scanRecording(row)
}

// GetRecordingByNote returns the most recently started recording linked to
// a note, or (nil, nil) when the note has none.
func (s *Store) GetRecordingByNote(noteID string) (*models.Recording, error) {
	row := s.db.QueryRow(`
		SELECT `+recordingColumns+` FROM recordings
		WHERE note_id = ?
		ORDER BY started_at IS NULL, started_at DESC LIMIT 1`, noteID)
	return scanRecording(row)
}

func scanRecording(row *sql.Row) (*models.Recording, error) {
	var r models.Recording
	var noteID, startedAt, endedAt, transcript sql.NullString
	err := row.Scan(&r.ID, &noteID, &r.Title, &r.CreatedAt, &r.UpdatedAt,
		&startedAt, &endedAt, &transcript)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan recording: %w", err)
	}
	r.NoteID = strPtr(noteID)
	r.StartedAt = strPtr(startedAt)
	r.EndedAt = strPtr(endedAt)
	if transcript.Valid {
		var t models.Transcript
		if err := json.Unmarshal([]byte(transcript.String), &t); err != nil {
			return nil, fmt.Errorf("decode transcript for %q: %w", r.ID, err)
		}
		r.Transcript = &t
	}
	return &r, nil
}
