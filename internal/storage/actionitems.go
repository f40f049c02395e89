package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fellowtools/fellow-mcp/internal/extract"
	"github.com/fellowtools/fellow-mcp/internal/models"
)

// ReplaceActionItems deletes a note's action items and bulk-inserts the
// freshly extracted set within one transaction. Re-parsing owns the rows
// completely; stale ids are not preserved.
func (s *Store) ReplaceActionItems(noteID string, items []extract.Candidate) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM action_items WHERE note_id = ?`, noteID); err != nil {
		return 0, fmt.Errorf("clear action items for %q: %w", noteID, err)
	}

	for _, it := range items {
		completed := 0
		if it.Completed {
			completed = 1
		}
		_, err := tx.Exec(`
			INSERT INTO action_items (note_id, content, assignee, due_date, completed)
			VALUES (?, ?, ?, ?, ?)`,
			noteID, it.Content, nullStr(it.Assignee), nullStr(it.DueDate), completed)
		if err != nil {
			return 0, fmt.Errorf("insert action item for %q: %w", noteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(items), nil
}

// ActionItemFilter narrows QueryActionItems results. Zero values mean
// "no constraint".
type ActionItemFilter struct {
	Assignee  string // substring match, case-insensitive
	Completed *bool
	Since     string // minimum owning-note event start date
}

// QueryActionItems returns action items joined with their owning note,
// ordered by event start descending.
func (s *Store) QueryActionItems(f ActionItemFilter) ([]models.ActionItem, error) {
	where := []string{"1=1"}
	var args []any

	if f.Assignee != "" {
		where = append(where, "lower(a.assignee) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Assignee)+"%")
	}
	if f.Completed != nil {
		where = append(where, "a.completed = ?")
		completed := 0
		if *f.Completed {
			completed = 1
		}
		args = append(args, completed)
	}
	if f.Since != "" {
		where = append(where, "n.event_start_at >= ?")
		args = append(args, f.Since)
	}

	rows, err := s.db.Query(`
		SELECT a.id, a.note_id, a.content, a.assignee, a.due_date, a.completed, a.created_at,
		       n.title, n.event_start_at
		FROM action_items a
		JOIN notes n ON n.id = a.note_id
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY n.event_start_at IS NULL, n.event_start_at DESC, a.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query action items: %w", err)
	}
	defer rows.Close()

	var items []models.ActionItem
	for rows.Next() {
		var it models.ActionItem
		var assignee, dueDate, eventStart sql.NullString
		var completed int
		if err := rows.Scan(&it.ID, &it.NoteID, &it.Content, &assignee, &dueDate,
			&completed, &it.CreatedAt, &it.NoteTitle, &eventStart); err != nil {
			return nil, fmt.Errorf("scan action item: %w", err)
		}
		it.Assignee = strPtr(assignee)
		it.DueDate = strPtr(dueDate)
		it.EventStartAt = strPtr(eventStart)
		it.Completed = completed != 0
		items = append(items, it)
	}
	return items, rows.Err()
}

// ActionItemsForNote returns a note's action items in insertion order.
func (s *Store) ActionItemsForNote(noteID string) ([]models.ActionItem, error) {
	rows, err := s.db.Query(`
		SELECT id, note_id, content, assignee, due_date, completed, created_at
		FROM action_items WHERE note_id = ? ORDER BY id`, noteID)
	if err != nil {
		return nil, fmt.Errorf("action items for %q: %w", noteID, err)
	}
	defer rows.Close()

	var items []models.ActionItem
	for rows.Next() {
		var it models.ActionItem
		var assignee, dueDate sql.NullString
		var completed int
		if err := rows.Scan(&it.ID, &it.NoteID, &it.Content, &assignee, &dueDate,
			&completed, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan action item: %w", err)
		}
		it.Assignee = strPtr(assignee)
		it.DueDate = strPtr(dueDate)
		it.Completed = completed != 0
		items = append(items, it)
	}
	return items, rows.Err()
}
