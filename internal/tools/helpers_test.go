package tools

import (
	"strings"
	"testing"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

func TestSnippetContainsMatch(t *testing.T) {
	content := strings.Repeat("padding ", 40) + "the Kubernetes migration plan" + strings.Repeat(" trailing", 40)

	s := snippet(content, "kubernetes", 30)
	if !strings.Contains(strings.ToLower(s), "kubernetes") {
		t.Errorf("snippet must contain the query, got %q", s)
	}
	if !strings.HasPrefix(s, "…") || !strings.HasSuffix(s, "…") {
		t.Errorf("snippet in the middle of content should be elided on both sides: %q", s)
	}
}

func TestSnippetShortContent(t *testing.T) {
	s := snippet("short note", "missing", 80)
	if s != "short note" {
		t.Errorf("snippet = %q", s)
	}
}

func TestSnippetFlattensNewlines(t *testing.T) {
	s := snippet("line one\nkeyword here\nline three", "keyword", 80)
	if strings.Contains(s, "\n") {
		t.Errorf("snippet should be single-line, got %q", s)
	}
}

func TestActionItemLine(t *testing.T) {
	assignee := "alice"
	due := "2024-03-01"
	it := &models.ActionItem{
		Content: "Finish report", Assignee: &assignee, DueDate: &due,
		Completed: true, NoteTitle: "Weekly Sync",
	}

	line := actionItemLine(it, true)
	for _, want := range []string{"[x]", "Finish report", "assignee: alice", "due: 2024-03-01", `from "Weekly Sync"`} {
		if !strings.Contains(line, want) {
			t.Errorf("actionItemLine missing %q: %q", want, line)
		}
	}

	open := actionItemLine(&models.ActionItem{Content: "Open item"}, false)
	if !strings.Contains(open, "[ ]") || strings.Contains(open, "from") {
		t.Errorf("open item line = %q", open)
	}
}

func TestNoteLineUnscheduled(t *testing.T) {
	line := noteLine(&models.Note{ID: "n1", Title: "Ad hoc chat"})
	if !strings.Contains(line, "unscheduled") || !strings.Contains(line, "n1") {
		t.Errorf("noteLine = %q", line)
	}
}
