package storage

import (
	"fmt"
	"strings"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

// ReplaceParticipants deletes a note's participant rows and inserts the
// given emails, lowercased and de-duplicated, within one transaction.
func (s *Store) ReplaceParticipants(noteID string, emails []string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM participants WHERE note_id = ?`, noteID); err != nil {
		return 0, fmt.Errorf("clear participants for %q: %w", noteID, err)
	}

	seen := make(map[string]bool)
	inserted := 0
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		if _, err := tx.Exec(`INSERT INTO participants (note_id, email) VALUES (?, ?)`, noteID, email); err != nil {
			return 0, fmt.Errorf("insert participant %q for %q: %w", email, noteID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ParticipantEmails returns the emails recorded for a note, sorted.
func (s *Store) ParticipantEmails(noteID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT email FROM participants WHERE note_id = ? ORDER BY email`, noteID)
	if err != nil {
		return nil, fmt.Errorf("participants for %q: %w", noteID, err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// NotesByAnyParticipant returns notes having at least one of the given
// emails as a participant, de-duplicated per note.
func (s *Store) NotesByAnyParticipant(emails []string) ([]models.Note, error) {
	placeholders, args := emailArgs(emails)
	if placeholders == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT `+prefixed("n", noteColumns)+`
		FROM notes n
		JOIN participants p ON p.note_id = n.id
		WHERE p.email IN (`+placeholders+`)
		ORDER BY n.event_start_at IS NULL, n.event_start_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("notes by any participant: %w", err)
	}
	return collectNotes(rows)
}

// NotesByAllParticipants returns notes having a participant row for every
// given email, computed by counting distinct matches per note.
func (s *Store) NotesByAllParticipants(emails []string) ([]models.Note, error) {
	placeholders, args := emailArgs(emails)
	if placeholders == "" {
		return nil, nil
	}
	args = append(args, len(args))

	rows, err := s.db.Query(`
		SELECT `+prefixed("n", noteColumns)+`
		FROM notes n
		WHERE n.id IN (
			SELECT note_id FROM participants
			WHERE email IN (`+placeholders+`)
			GROUP BY note_id
			HAVING COUNT(DISTINCT email) = ?
		)
		ORDER BY n.event_start_at IS NULL, n.event_start_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("notes by all participants: %w", err)
	}
	return collectNotes(rows)
}

// emailArgs normalizes the input set and builds the IN-clause placeholders.
func emailArgs(emails []string) (string, []any) {
	seen := make(map[string]bool)
	var args []any
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		args = append(args, email)
	}
	if len(args) == 0 {
		return "", nil
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", "), args
}

// prefixed qualifies a comma-separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
