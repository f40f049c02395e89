package models

// Note represents a meeting summary document synced from Fellow.
// Timestamps are ISO-8601 strings as delivered by the remote API.
type Note struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
	EventStartAt    *string    `json:"event_start_at,omitempty"`
	EventEndAt      *string    `json:"event_end_at,omitempty"`
	EventID         *string    `json:"event_id,omitempty"`
	VideoCallURL    *string    `json:"video_call_url,omitempty"`
	ContentMarkdown *string    `json:"content_markdown,omitempty"`
	Attendees       []Attendee `json:"attendees,omitempty"`
}

// Attendee is a meeting participant as reported by the remote API.
type Attendee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Recording is an audio/video capture, optionally linked to a Note.
type Recording struct {
	ID         string      `json:"id"`
	NoteID     *string     `json:"note_id,omitempty"`
	Title      string      `json:"title"`
	CreatedAt  string      `json:"created_at"`
	UpdatedAt  string      `json:"updated_at"`
	StartedAt  *string     `json:"started_at,omitempty"`
	EndedAt    *string     `json:"ended_at,omitempty"`
	Transcript *Transcript `json:"transcript,omitempty"`
}

// Transcript is the structured speech content of a recording.
type Transcript struct {
	Language string              `json:"language"`
	Segments []TranscriptSegment `json:"segments"`
}

// TranscriptSegment is one contiguous utterance by a single speaker.
// Start and End are offsets in seconds from the beginning of the recording.
type TranscriptSegment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// ActionItem is a unit of work extracted from a note's content.
// Rows are wholly owned by their note and replaced on every re-sync.
type ActionItem struct {
	ID        int64   `json:"id"`
	NoteID    string  `json:"note_id"`
	Content   string  `json:"content"`
	Assignee  *string `json:"assignee,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"created_at"`

	// Filled by queries that join the owning note.
	NoteTitle    string  `json:"note_title,omitempty"`
	EventStartAt *string `json:"event_start_at,omitempty"`
}

// Participant is an (email, note) membership fact.
type Participant struct {
	ID     int64  `json:"id"`
	NoteID string `json:"note_id"`
	Email  string `json:"email"`
}

// SyncStats counts what one sync pass touched.
type SyncStats struct {
	Notes        int `json:"notes"`
	Recordings   int `json:"recordings"`
	ActionItems  int `json:"action_items"`
	Participants int `json:"participants"`
}

// SyncRun is the audit record of a single sync pass, successful or not.
type SyncRun struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"` // "full" or "incremental"
	StartedAt  string    `json:"started_at"`
	FinishedAt string    `json:"finished_at"`
	Stats      SyncStats `json:"stats"`
	Error      string    `json:"error,omitempty"`
}

// CacheStats summarizes the local cache contents.
type CacheStats struct {
	Notes        int    `json:"notes"`
	Recordings   int    `json:"recordings"`
	ActionItems  int    `json:"action_items"`
	Participants int    `json:"participants"` // distinct emails
	LastSync     string `json:"last_sync,omitempty"`
}

// StringPtr returns a pointer to s, for building optional fields.
func StringPtr(s string) *string { return &s }
