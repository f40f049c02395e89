// Package sync drives paginated fetches from the Fellow API into the local
// cache. Pages are processed strictly sequentially; the next page is only
// requested after the prior page's entities are fully persisted. A single
// orchestrator invocation at a time is a caller responsibility.
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fellowtools/fellow-mcp/internal/extract"
	"github.com/fellowtools/fellow-mcp/internal/fellow"
	"github.com/fellowtools/fellow-mcp/internal/models"
	"github.com/fellowtools/fellow-mcp/internal/storage"
)

// maxPages bounds each list walk so a remote cursor that never goes null
// cannot loop forever.
const maxPages = 500

const pageSize = 50

// Syncer copies remote state into the local store.
type Syncer struct {
	client *fellow.Client
	store  *storage.Store
}

// New creates a Syncer over the given client and store.
func New(client *fellow.Client, store *storage.Store) *Syncer {
	return &Syncer{client: client, store: store}
}

// Full syncs every note and recording in the workspace, then advances the
// watermark. The store may be left partially updated when the remote
// fails mid-pass; a later pass repairs it because upserts are idempotent.
func (s *Syncer) Full(ctx context.Context) (*models.SyncStats, error) {
	return s.run(ctx, "full", nil)
}

// Incremental syncs notes and recordings updated since the stored
// watermark. With no watermark it degrades to a full pass.
func (s *Syncer) Incremental(ctx context.Context) (*models.SyncStats, error) {
	since, err := s.store.LastSync()
	if err != nil {
		return nil, err
	}
	if since == "" {
		return s.run(ctx, "full", nil)
	}
	return s.run(ctx, "incremental", &since)
}

func (s *Syncer) run(ctx context.Context, mode string, since *string) (*models.SyncStats, error) {
	started := time.Now().UTC()
	log.Printf("sync: starting %s pass", mode)

	stats := &models.SyncStats{}
	err := s.pass(ctx, since, stats)

	run := &models.SyncRun{
		ID:         uuid.New().String(),
		Mode:       mode,
		StartedAt:  started.Format(time.RFC3339),
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:      *stats,
	}
	if err != nil {
		run.Error = err.Error()
	}
	if recErr := s.store.RecordSyncRun(run); recErr != nil {
		log.Printf("sync: failed to record run: %v", recErr)
	}

	if err != nil {
		log.Printf("sync: %s pass failed: %v", mode, err)
		return nil, err
	}

	if err := s.store.SetLastSync(run.FinishedAt); err != nil {
		return nil, err
	}
	log.Printf("sync: %s pass done: %d notes, %d recordings, %d action items, %d participants",
		mode, stats.Notes, stats.Recordings, stats.ActionItems, stats.Participants)
	return stats, nil
}

func (s *Syncer) pass(ctx context.Context, since *string, stats *models.SyncStats) error {
	var filters *fellow.NoteFilters
	if since != nil {
		filters = &fellow.NoteFilters{UpdatedAtGte: since}
	}

	if err := s.syncNotes(ctx, filters, stats); err != nil {
		return err
	}
	return s.syncRecordings(ctx, filters, stats)
}

func (s *Syncer) syncNotes(ctx context.Context, filters *fellow.NoteFilters, stats *models.SyncStats) error {
	var cursor *string
	for page := 0; ; page++ {
		if page >= maxPages {
			return fmt.Errorf("notes pagination exceeded %d pages without a final cursor", maxPages)
		}

		resp, err := s.client.ListNotes(ctx, fellow.ListNotesOptions{
			Filters:  filters,
			Include:  &fellow.NoteInclude{ContentMarkdown: true, Attendees: true},
			Cursor:   cursor,
			PageSize: pageSize,
		})
		if err != nil {
			return fmt.Errorf("list notes page %d: %w", page, err)
		}

		for i := range resp.Data {
			note := &resp.Data[i]
			if err := s.store.UpsertNote(note); err != nil {
				return err
			}
			stats.Notes++

			if note.ContentMarkdown != nil {
				items := extract.Extract(*note.ContentMarkdown)
				n, err := s.store.ReplaceActionItems(note.ID, items)
				if err != nil {
					return err
				}
				stats.ActionItems += n
			}

			if note.Attendees != nil {
				emails := make([]string, 0, len(note.Attendees))
				for _, a := range note.Attendees {
					emails = append(emails, a.Email)
				}
				n, err := s.store.ReplaceParticipants(note.ID, emails)
				if err != nil {
					return err
				}
				stats.Participants += n
			}
		}

		if resp.PageInfo.Cursor == nil {
			return nil
		}
		cursor = resp.PageInfo.Cursor
	}
}

func (s *Syncer) syncRecordings(ctx context.Context, filters *fellow.NoteFilters, stats *models.SyncStats) error {
	var cursor *string
	for page := 0; ; page++ {
		if page >= maxPages {
			return fmt.Errorf("recordings pagination exceeded %d pages without a final cursor", maxPages)
		}

		resp, err := s.client.ListRecordings(ctx, fellow.ListRecordingsOptions{
			Filters:  filters,
			Include:  &fellow.RecordingInclude{Transcript: true},
			Cursor:   cursor,
			PageSize: pageSize,
		})
		if err != nil {
			return fmt.Errorf("list recordings page %d: %w", page, err)
		}

		for i := range resp.Data {
			ok, err := s.store.UpsertRecording(&resp.Data[i])
			if err != nil {
				return err
			}
			if ok {
				stats.Recordings++
			}
		}

		if resp.PageInfo.Cursor == nil {
			return nil
		}
		cursor = resp.PageInfo.Cursor
	}
}
