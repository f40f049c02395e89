package tools

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// noteLine renders a one-line summary of a note for list output.
func noteLine(n *models.Note) string {
	date := "unscheduled"
	if n.EventStartAt != nil {
		date = *n.EventStartAt
	}
	return fmt.Sprintf("- %s (%s) [id: %s]", n.Title, date, n.ID)
}

// noteDetail renders a full note with its cached relations.
func noteDetail(n *models.Note, emails []string, items []models.ActionItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", n.Title)
	fmt.Fprintf(&b, "ID: %s\n", n.ID)
	if n.EventStartAt != nil {
		fmt.Fprintf(&b, "Event start: %s\n", *n.EventStartAt)
	}
	if n.EventEndAt != nil {
		fmt.Fprintf(&b, "Event end: %s\n", *n.EventEndAt)
	}
	if n.VideoCallURL != nil {
		fmt.Fprintf(&b, "Call URL: %s\n", *n.VideoCallURL)
	}
	fmt.Fprintf(&b, "Updated: %s\n", n.UpdatedAt)

	if len(emails) > 0 {
		fmt.Fprintf(&b, "\nParticipants: %s\n", strings.Join(emails, ", "))
	}

	if len(items) > 0 {
		b.WriteString("\nAction items:\n")
		for _, it := range items {
			b.WriteString(actionItemLine(&it, false))
		}
	}

	if n.ContentMarkdown != nil && *n.ContentMarkdown != "" {
		b.WriteString("\n---\n")
		b.WriteString(*n.ContentMarkdown)
		b.WriteString("\n")
	}
	return b.String()
}

func actionItemLine(it *models.ActionItem, withNote bool) string {
	box := "[ ]"
	if it.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("- %s %s", box, it.Content)
	if it.Assignee != nil {
		line += fmt.Sprintf(" (assignee: %s)", *it.Assignee)
	}
	if it.DueDate != nil {
		line += fmt.Sprintf(" (due: %s)", *it.DueDate)
	}
	if withNote && it.NoteTitle != "" {
		line += fmt.Sprintf(" — from %q", it.NoteTitle)
	}
	return line + "\n"
}

// snippet returns a window of content around the first case-insensitive
// occurrence of query. The returned text always contains the match.
func snippet(content, query string, radius int) string {
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		if len(content) > 2*radius {
			return content[:2*radius] + "…"
		}
		return content
	}

	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + len(query) + radius
	if end > len(content) {
		end = len(content)
	}

	out := content[start:end]
	if start > 0 {
		out = "…" + out
	}
	if end < len(content) {
		out += "…"
	}
	return strings.ReplaceAll(out, "\n", " ")
}
