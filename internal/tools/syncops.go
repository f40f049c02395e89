package tools

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fellowtools/fellow-mcp/internal/storage"
	syncer "github.com/fellowtools/fellow-mcp/internal/sync"
)

// SyncTools holds references needed by sync and stats handlers.
type SyncTools struct {
	Store  *storage.Store
	Syncer *syncer.Syncer
}

// --- Input types ---

type SyncMeetingsInput struct {
	Full bool `json:"full,omitempty" jsonschema:"Force a full re-sync instead of an incremental one"`
}

type ActionItemsInput struct {
	Assignee  string `json:"assignee,omitempty" jsonschema:"Filter by assignee name (substring match)"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"Filter by completion state"`
	Since     string `json:"since,omitempty" jsonschema:"Only items from meetings on or after this date (YYYY-MM-DD)"`
}

// --- Handlers ---

func (t *SyncTools) SyncMeetings(ctx context.Context, _ *mcp.CallToolRequest, input SyncMeetingsInput) (*mcp.CallToolResult, any, error) {
	run := t.Syncer.Incremental
	mode := "Incremental"
	if input.Full {
		run = t.Syncer.Full
		mode = "Full"
	}

	stats, err := run(ctx)
	if err != nil {
		return toolError("Sync failed: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf(
		"%s sync complete: %d notes, %d recordings, %d action items, %d participants.",
		mode, stats.Notes, stats.Recordings, stats.ActionItems, stats.Participants)), nil, nil
}

// ListActionItems refreshes the cache with an incremental sync, then
// serves the filtered action items. A failed refresh is reported but does
// not block returning what is already cached.
func (t *SyncTools) ListActionItems(ctx context.Context, _ *mcp.CallToolRequest, input ActionItemsInput) (*mcp.CallToolResult, any, error) {
	var warning string
	if _, err := t.Syncer.Incremental(ctx); err != nil {
		log.Printf("tools: pre-query sync failed: %v", err)
		warning = fmt.Sprintf("Warning: sync failed (%v); showing cached results.\n\n", err)
	}

	items, err := t.Store.QueryActionItems(storage.ActionItemFilter{
		Assignee:  input.Assignee,
		Completed: input.Completed,
		Since:     input.Since,
	})
	if err != nil {
		return toolError("Failed to query action items: %v", err), nil, nil
	}
	if len(items) == 0 {
		return toolText(warning + "No action items match those filters."), nil, nil
	}

	var b strings.Builder
	b.WriteString(warning)
	fmt.Fprintf(&b, "%d action item(s):\n", len(items))
	for i := range items {
		b.WriteString(actionItemLine(&items[i], true))
	}
	return toolText(b.String()), nil, nil
}

func (t *SyncTools) CacheStats(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	stats, err := t.Store.Stats()
	if err != nil {
		return toolError("Failed to read cache stats: %v", err), nil, nil
	}

	var b strings.Builder
	b.WriteString("Local cache:\n")
	fmt.Fprintf(&b, "- Meetings: %d\n", stats.Notes)
	fmt.Fprintf(&b, "- Recordings: %d\n", stats.Recordings)
	fmt.Fprintf(&b, "- Action items: %d\n", stats.ActionItems)
	fmt.Fprintf(&b, "- Distinct participants: %d\n", stats.Participants)
	if stats.LastSync == "" {
		b.WriteString("- Last sync: never\n")
	} else {
		fmt.Fprintf(&b, "- Last sync: %s\n", stats.LastSync)
	}

	runs, err := t.Store.RecentSyncRuns(5)
	if err != nil {
		return toolError("Failed to read sync history: %v", err), nil, nil
	}
	if len(runs) > 0 {
		b.WriteString("\nRecent sync runs:\n")
		for _, r := range runs {
			status := "ok"
			if r.Error != "" {
				status = "failed: " + r.Error
			}
			fmt.Fprintf(&b, "- %s %s (%d notes, %d recordings) %s\n",
				r.StartedAt, r.Mode, r.Stats.Notes, r.Stats.Recordings, status)
		}
	}
	return toolText(b.String()), nil, nil
}
