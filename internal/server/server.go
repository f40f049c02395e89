package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fellowtools/fellow-mcp/internal/storage"
	syncer "github.com/fellowtools/fellow-mcp/internal/sync"
	"github.com/fellowtools/fellow-mcp/internal/tools"
)

// New creates a fully configured MCP server with all tools registered.
func New(store *storage.Store, sy *syncer.Syncer) *mcp.Server {
	mt := &tools.MeetingTools{Store: store}
	st := &tools.SyncTools{Store: store, Syncer: sy}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "fellow-mcp",
		Version: "0.1.0",
	}, nil)

	// Cached-meeting tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_meetings",
		Description: "Search cached meetings by title substring and/or event date range",
	}, mt.SearchMeetings)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_meeting",
		Description: "Get full details of a meeting by id or title, including notes, participants, and action items",
	}, mt.GetMeeting)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_recent_meetings",
		Description: "List the most recent meetings by event start time",
	}, mt.GetRecentMeetings)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Get the transcript of a recording by recording id or meeting title",
	}, mt.GetTranscript)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "find_meetings_by_participants",
		Description: "Find meetings attended by the given emails (any of them, or all of them with match_all)",
	}, mt.FindMeetingsByParticipants)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_content",
		Description: "Search meeting titles and note content for a text substring, with snippets",
	}, mt.SearchContent)

	// Action-item and sync tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_action_items",
		Description: "List extracted action items, optionally filtered by assignee, completion, or meeting date (refreshes the cache first)",
	}, st.ListActionItems)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "sync_meetings",
		Description: "Sync meetings and recordings from Fellow into the local cache (incremental by default)",
	}, st.SyncMeetings)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "cache_stats",
		Description: "Show local cache counts, last sync time, and recent sync runs",
	}, st.CacheStats)

	return srv
}
