// Package tools implements the MCP tool handlers. Every handler returns
// human-readable text: not-found conditions are informational messages,
// remote and storage failures are IsError results, and nothing here ever
// panics a protocol session.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fellowtools/fellow-mcp/internal/models"
	"github.com/fellowtools/fellow-mcp/internal/storage"
)

// MeetingTools holds references needed by the cached-meeting handlers.
type MeetingTools struct {
	Store *storage.Store
}

// --- Input types ---

type SearchMeetingsInput struct {
	Title     string `json:"title,omitempty" jsonschema:"Substring to match against meeting titles"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Earliest event date (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Latest event date (YYYY-MM-DD)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of meetings to return (default 20)"`
}

type GetMeetingInput struct {
	ID    string `json:"id,omitempty" jsonschema:"Meeting note id"`
	Title string `json:"title,omitempty" jsonschema:"Meeting title (exact or substring, used when id is not given)"`
}

type RecentMeetingsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of meetings to return (default 10)"`
}

type GetTranscriptInput struct {
	RecordingID  string `json:"recording_id,omitempty" jsonschema:"Recording id"`
	MeetingTitle string `json:"meeting_title,omitempty" jsonschema:"Meeting title to resolve the recording from"`
}

type ParticipantSearchInput struct {
	Emails   []string `json:"emails" jsonschema:"Participant email addresses to search for"`
	MatchAll bool     `json:"match_all,omitempty" jsonschema:"Require every email to be a participant (default: any)"`
}

type SearchContentInput struct {
	Query string `json:"query" jsonschema:"Text to search for in meeting titles and notes"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of matches to return (default 10)"`
}

// --- Handlers ---

func (t *MeetingTools) SearchMeetings(_ context.Context, _ *mcp.CallToolRequest, input SearchMeetingsInput) (*mcp.CallToolResult, any, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	notes, err := t.Store.ListNotesFiltered(storage.NoteSearchFilter{
		TitleContains: input.Title,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Limit:         limit,
	})
	if err != nil {
		return toolError("Failed to search meetings: %v", err), nil, nil
	}
	if len(notes) == 0 {
		return toolText("No meetings found matching those criteria."), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d meeting(s):\n", len(notes))
	for i := range notes {
		b.WriteString(noteLine(&notes[i]) + "\n")
	}
	return toolText(b.String()), nil, nil
}

func (t *MeetingTools) GetMeeting(_ context.Context, _ *mcp.CallToolRequest, input GetMeetingInput) (*mcp.CallToolResult, any, error) {
	note, errResult := t.resolveNote(input.ID, input.Title)
	if errResult != nil {
		return errResult, nil, nil
	}

	emails, err := t.Store.ParticipantEmails(note.ID)
	if err != nil {
		return toolError("Failed to load participants: %v", err), nil, nil
	}
	items, err := t.Store.ActionItemsForNote(note.ID)
	if err != nil {
		return toolError("Failed to load action items: %v", err), nil, nil
	}
	return toolText(noteDetail(note, emails, items)), nil, nil
}

func (t *MeetingTools) GetRecentMeetings(_ context.Context, _ *mcp.CallToolRequest, input RecentMeetingsInput) (*mcp.CallToolResult, any, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	notes, err := t.Store.ListNotes(limit)
	if err != nil {
		return toolError("Failed to list meetings: %v", err), nil, nil
	}
	if len(notes) == 0 {
		return toolText("The local cache is empty. Run sync_meetings first."), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Most recent %d meeting(s):\n", len(notes))
	for i := range notes {
		b.WriteString(noteLine(&notes[i]) + "\n")
	}
	return toolText(b.String()), nil, nil
}

func (t *MeetingTools) GetTranscript(_ context.Context, _ *mcp.CallToolRequest, input GetTranscriptInput) (*mcp.CallToolResult, any, error) {
	var rec *models.Recording
	var err error

	switch {
	case input.RecordingID != "":
		rec, err = t.Store.GetRecording(input.RecordingID)
		if err != nil {
			return toolError("Failed to load recording: %v", err), nil, nil
		}
		if rec == nil {
			return toolText(fmt.Sprintf("No recording found with id %q.", input.RecordingID)), nil, nil
		}
	case input.MeetingTitle != "":
		note, errResult := t.resolveNote("", input.MeetingTitle)
		if errResult != nil {
			return errResult, nil, nil
		}
		rec, err = t.Store.GetRecordingByNote(note.ID)
		if err != nil {
			return toolError("Failed to load recording: %v", err), nil, nil
		}
		if rec == nil {
			return toolText(fmt.Sprintf("Meeting %q has no cached recording.", note.Title)), nil, nil
		}
	default:
		return toolError("Provide either recording_id or meeting_title."), nil, nil
	}

	if rec.Transcript == nil || len(rec.Transcript.Segments) == 0 {
		return toolText(fmt.Sprintf("Recording %q has no transcript.", rec.Title)), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transcript of %q (%s, %d segments):\n\n", rec.Title, rec.Transcript.Language, len(rec.Transcript.Segments))
	for _, seg := range rec.Transcript.Segments {
		fmt.Fprintf(&b, "[%s–%s] %s: %s\n", formatSeconds(seg.Start), formatSeconds(seg.End), seg.Speaker, seg.Text)
	}
	return toolText(b.String()), nil, nil
}

func (t *MeetingTools) FindMeetingsByParticipants(_ context.Context, _ *mcp.CallToolRequest, input ParticipantSearchInput) (*mcp.CallToolResult, any, error) {
	if len(input.Emails) == 0 {
		return toolError("At least one email is required."), nil, nil
	}

	var notes []models.Note
	var err error
	mode := "any of"
	if input.MatchAll {
		mode = "all of"
		notes, err = t.Store.NotesByAllParticipants(input.Emails)
	} else {
		notes, err = t.Store.NotesByAnyParticipant(input.Emails)
	}
	if err != nil {
		return toolError("Failed to search by participants: %v", err), nil, nil
	}
	if len(notes) == 0 {
		return toolText(fmt.Sprintf("No meetings found with %s: %s.", mode, strings.Join(input.Emails, ", "))), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d meeting(s) with %s %s:\n", len(notes), mode, strings.Join(input.Emails, ", "))
	for i := range notes {
		b.WriteString(noteLine(&notes[i]) + "\n")
	}
	return toolText(b.String()), nil, nil
}

func (t *MeetingTools) SearchContent(_ context.Context, _ *mcp.CallToolRequest, input SearchContentInput) (*mcp.CallToolResult, any, error) {
	if input.Query == "" {
		return toolError("A query string is required."), nil, nil
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	notes, err := t.Store.SearchNotes(input.Query, limit)
	if err != nil {
		return toolError("Search failed: %v", err), nil, nil
	}
	if len(notes) == 0 {
		return toolText(fmt.Sprintf("No meetings mention %q.", input.Query)), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %q in %d meeting(s):\n", input.Query, len(notes))
	for i := range notes {
		n := &notes[i]
		b.WriteString(noteLine(n) + "\n")
		if n.ContentMarkdown != nil {
			if s := snippet(*n.ContentMarkdown, input.Query, 80); s != "" {
				fmt.Fprintf(&b, "  > %s\n", s)
			}
		}
	}
	return toolText(b.String()), nil, nil
}

// resolveNote finds a note by id or title and maps the miss to an
// informational (non-error) result.
func (t *MeetingTools) resolveNote(id, title string) (*models.Note, *mcp.CallToolResult) {
	switch {
	case id != "":
		note, err := t.Store.GetNote(id)
		if err != nil {
			return nil, toolError("Failed to load meeting: %v", err)
		}
		if note == nil {
			return nil, toolText(fmt.Sprintf("No meeting found with id %q.", id))
		}
		return note, nil
	case title != "":
		note, err := t.Store.GetNoteByTitle(title)
		if err != nil {
			return nil, toolError("Failed to load meeting: %v", err)
		}
		if note == nil {
			return nil, toolText(fmt.Sprintf("No meeting found with title matching %q.", title))
		}
		return note, nil
	default:
		return nil, toolError("Provide either id or title.")
	}
}

func formatSeconds(s float64) string {
	total := int(s)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
