package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

const noteColumns = `id, title, created_at, updated_at, event_start_at, event_end_at, event_id, video_call_url, content_markdown`

// Notes without a scheduled event sort after dated ones, newest first.
const noteOrder = `ORDER BY event_start_at IS NULL, event_start_at DESC`

// UpsertNote inserts or updates a note. Optional fields follow the
// coalescing rule: an absent value in the incoming note never overwrites a
// previously stored one, so a partial fetch cannot regress content that a
// richer fetch already cached.
func (s *Store) UpsertNote(n *models.Note) error {
	_, err := s.db.Exec(`
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title            = excluded.title,
			created_at       = excluded.created_at,
			updated_at       = excluded.updated_at,
			event_start_at   = COALESCE(excluded.event_start_at, notes.event_start_at),
			event_end_at     = COALESCE(excluded.event_end_at, notes.event_end_at),
			event_id         = COALESCE(excluded.event_id, notes.event_id),
			video_call_url   = COALESCE(excluded.video_call_url, notes.video_call_url),
			content_markdown = COALESCE(excluded.content_markdown, notes.content_markdown)`,
		n.ID, n.Title, n.CreatedAt, n.UpdatedAt,
		nullStr(n.EventStartAt), nullStr(n.EventEndAt), nullStr(n.EventID),
		nullStr(n.VideoCallURL), nullStr(n.ContentMarkdown),
	)
	if err != nil {
		return fmt.Errorf("upsert note %q: %w", n.ID, err)
	}
	return nil
}

// GetNote looks up a note by id. Returns (nil, nil) when absent.
func (s *Store) GetNote(id string) (*models.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

// GetNoteByTitle resolves a note by title: case-insensitive exact match
// first, then substring. Ambiguity resolves to the most recent event.
// Returns (nil, nil) when nothing matches.
func (s *Store) GetNoteByTitle(title string) (*models.Note, error) {
	row := s.db.QueryRow(`
		SELECT `+noteColumns+` FROM notes
		WHERE lower(title) = lower(?) `+noteOrder+` LIMIT 1`, title)
	note, err := scanNote(row)
	if err != nil || note != nil {
		return note, err
	}

	row = s.db.QueryRow(`
		SELECT `+noteColumns+` FROM notes
		WHERE lower(title) LIKE ? `+noteOrder+` LIMIT 1`,
		"%"+strings.ToLower(title)+"%")
	return scanNote(row)
}

// ListNotes returns cached notes ordered by event start, newest first.
// limit <= 0 means no limit.
func (s *Store) ListNotes(limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+noteColumns+` FROM notes `+noteOrder+` LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return collectNotes(rows)
}

// NoteSearchFilter narrows ListNotesFiltered results.
type NoteSearchFilter struct {
	TitleContains string
	StartDate     string // event_start_at >= StartDate
	EndDate       string // event_start_at <= EndDate
	Limit         int
}

// ListNotesFiltered returns notes matching a title substring and/or an
// event date window.
func (s *Store) ListNotesFiltered(f NoteSearchFilter) ([]models.Note, error) {
	where := []string{"1=1"}
	var args []any

	if f.TitleContains != "" {
		where = append(where, "lower(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.TitleContains)+"%")
	}
	if f.StartDate != "" {
		where = append(where, "event_start_at >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		// A bare date bound still covers timestamps on that day.
		where = append(where, "event_start_at <= ?")
		args = append(args, f.EndDate+"￿")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := s.db.Query(`
		SELECT `+noteColumns+` FROM notes
		WHERE `+strings.Join(where, " AND ")+` `+noteOrder+` LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("filter notes: %w", err)
	}
	return collectNotes(rows)
}

// SearchNotes performs a case-insensitive substring search over titles and
// content. limit <= 0 means no limit.
func (s *Store) SearchNotes(query string, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.Query(`
		SELECT `+noteColumns+` FROM notes
		WHERE lower(title) LIKE ? OR lower(content_markdown) LIKE ?
		`+noteOrder+` LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return collectNotes(rows)
}

func scanNote(row *sql.Row) (*models.Note, error) {
	var n models.Note
	var eventStart, eventEnd, eventID, callURL, content sql.NullString
	err := row.Scan(&n.ID, &n.Title, &n.CreatedAt, &n.UpdatedAt,
		&eventStart, &eventEnd, &eventID, &callURL, &content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan note: %w", err)
	}
	n.EventStartAt = strPtr(eventStart)
	n.EventEndAt = strPtr(eventEnd)
	n.EventID = strPtr(eventID)
	n.VideoCallURL = strPtr(callURL)
	n.ContentMarkdown = strPtr(content)
	return &n, nil
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()
	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var eventStart, eventEnd, eventID, callURL, content sql.NullString
		if err := rows.Scan(&n.ID, &n.Title, &n.CreatedAt, &n.UpdatedAt,
			&eventStart, &eventEnd, &eventID, &callURL, &content); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.EventStartAt = strPtr(eventStart)
		n.EventEndAt = strPtr(eventEnd)
		n.EventID = strPtr(eventID)
		n.VideoCallURL = strPtr(callURL)
		n.ContentMarkdown = strPtr(content)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
