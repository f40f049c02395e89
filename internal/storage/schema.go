package storage

// Schema is the SQL schema for the local cache database.
const Schema = `
CREATE TABLE IF NOT EXISTS notes (
    id               TEXT PRIMARY KEY,
    title            TEXT NOT NULL DEFAULT '',
    created_at       TEXT NOT NULL DEFAULT '',
    updated_at       TEXT NOT NULL DEFAULT '',
    event_start_at   TEXT,
    event_end_at     TEXT,
    event_id         TEXT,
    video_call_url   TEXT,
    content_markdown TEXT
);

CREATE TABLE IF NOT EXISTS recordings (
    id         TEXT PRIMARY KEY,
    note_id    TEXT REFERENCES notes(id) ON DELETE CASCADE,
    title      TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT '',
    started_at TEXT,
    ended_at   TEXT,
    transcript TEXT
);

CREATE TABLE IF NOT EXISTS action_items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    note_id    TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    content    TEXT NOT NULL,
    assignee   TEXT,
    due_date   TEXT,
    completed  INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS participants (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    email   TEXT NOT NULL,
    UNIQUE(note_id, email)
);

CREATE TABLE IF NOT EXISTS sync_status (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_runs (
    id           TEXT PRIMARY KEY,
    mode         TEXT NOT NULL,
    started_at   TEXT NOT NULL,
    finished_at  TEXT NOT NULL,
    notes        INTEGER NOT NULL DEFAULT 0,
    recordings   INTEGER NOT NULL DEFAULT 0,
    action_items INTEGER NOT NULL DEFAULT 0,
    participants INTEGER NOT NULL DEFAULT 0,
    error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);
CREATE INDEX IF NOT EXISTS idx_notes_event_start ON notes(event_start_at);
CREATE INDEX IF NOT EXISTS idx_recordings_note ON recordings(note_id);
CREATE INDEX IF NOT EXISTS idx_action_items_note ON action_items(note_id);
CREATE INDEX IF NOT EXISTS idx_action_items_assignee ON action_items(assignee);
CREATE INDEX IF NOT EXISTS idx_participants_note ON participants(note_id);
CREATE INDEX IF NOT EXISTS idx_participants_email ON participants(email);
`
