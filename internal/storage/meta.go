package storage

import (
	"database/sql"
	"fmt"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

const lastSyncKey = "last_sync"

// LastSync returns the watermark of the last successful sync pass, or ""
// when no sync has ever completed.
func (s *Store) LastSync() (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM sync_status WHERE key = ?`, lastSyncKey).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last sync: %w", err)
	}
	return value, nil
}

// SetLastSync records the watermark of a completed sync pass.
func (s *Store) SetLastSync(ts string) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_status (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastSyncKey, ts)
	if err != nil {
		return fmt.Errorf("write last sync: %w", err)
	}
	return nil
}

// RecordSyncRun appends the audit row for one sync pass.
func (s *Store) RecordSyncRun(run *models.SyncRun) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_runs (id, mode, started_at, finished_at, notes, recordings, action_items, participants, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.StartedAt, run.FinishedAt,
		run.Stats.Notes, run.Stats.Recordings, run.Stats.ActionItems, run.Stats.Participants,
		run.Error)
	if err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}
	return nil
}

// RecentSyncRuns returns the latest sync passes, newest first.
func (s *Store) RecentSyncRuns(limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, mode, started_at, finished_at, notes, recordings, action_items, participants, error
		FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var r models.SyncRun
		if err := rows.Scan(&r.ID, &r.Mode, &r.StartedAt, &r.FinishedAt,
			&r.Stats.Notes, &r.Stats.Recordings, &r.Stats.ActionItems, &r.Stats.Participants,
			&r.Error); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats returns aggregate counts over the cache.
func (s *Store) Stats() (*models.CacheStats, error) {
	stats := &models.CacheStats{}
	queries := []struct {
		sql  string
		dest *int
	}{
		{`SELECT COUNT(*) FROM notes`, &stats.Notes},
		{`SELECT COUNT(*) FROM recordings`, &stats.Recordings},
		{`SELECT COUNT(*) FROM action_items`, &stats.ActionItems},
		{`SELECT COUNT(DISTINCT email) FROM participants`, &stats.Participants},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("cache stats: %w", err)
		}
	}

	last, err := s.LastSync()
	if err != nil {
		return nil, err
	}
	stats.LastSync = last
	return stats, nil
}
