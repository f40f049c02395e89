// Package extract pulls candidate action items out of markdown-ish note
// content. It is a best-effort heuristic scanner, not a parser: lines that
// almost match a pattern are skipped, malformed dates yield no due date,
// and nothing here ever returns an error.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Candidate is one extracted action item, prior to persistence.
type Candidate struct {
	Content   string
	Assignee  *string
	DueDate   *string // YYYY-MM-DD
	Completed bool
}

var (
	// - [ ] task  /  * [x] task
	checkboxRe = regexp.MustCompile(`^\s*[-*]\s*\[( |x|X)\]\s*(.+)$`)
	// Action Item: task  /  - TODO: task
	labeledRe = regexp.MustCompile(`(?i)^\s*(?:[-*]\s*)?(?:action item|action|todo|to-do|to do)\s*:\s*(.+)$`)
	// - @alice - task  /  * @bob: task
	mentionRe = regexp.MustCompile(`^\s*[-*]\s*@(\w+)\s*[-:]\s*(.+)$`)

	mentionScanRe = regexp.MustCompile(`@(\w+)`)
	isoDueRe      = regexp.MustCompile(`(?i)\b(?:due|by|deadline)\b[:\s]+(\d{4}-\d{2}-\d{2})`)
	usDueRe       = regexp.MustCompile(`(?i)\b(?:due|by|deadline)\b[:\s]+(\d{1,2})/(\d{1,2})/(\d{2,4})`)
)

// Extract scans content line by line and returns candidates in document
// order. Patterns are tried in fixed priority per line and the first match
// wins; no line produces more than one item.
func Extract(content string) []Candidate {
	var items []Candidate
	for _, line := range strings.Split(content, "\n") {
		c, ok := matchLine(line)
		if !ok {
			continue
		}
		if c.Assignee == nil {
			if m := mentionScanRe.FindStringSubmatch(c.Content); m != nil {
				c.Assignee = &m[1]
			}
		}
		if due := parseDueDate(c.Content); due != "" {
			c.DueDate = &due
		}
		items = append(items, c)
	}
	return items
}

func matchLine(line string) (Candidate, bool) {
	if m := checkboxRe.FindStringSubmatch(line); m != nil {
		return Candidate{
			Content:   strings.TrimSpace(m[2]),
			Completed: strings.EqualFold(m[1], "x"),
		}, true
	}
	if m := labeledRe.FindStringSubmatch(line); m != nil {
		return Candidate{Content: strings.TrimSpace(m[1])}, true
	}
	if m := mentionRe.FindStringSubmatch(line); m != nil {
		name := m[1]
		return Candidate{
			Content:  "@" + name + ": " + strings.TrimSpace(m[2]),
			Assignee: &name,
		}, true
	}
	return Candidate{}, false
}

// parseDueDate finds a due date near a due/by/deadline keyword. ISO dates
// take precedence over US-style M/D/Y dates; anything that does not survive
// a calendar round-trip is treated as absent.
func parseDueDate(content string) string {
	if m := isoDueRe.FindStringSubmatch(content); m != nil {
		if _, err := time.Parse("2006-01-02", m[1]); err == nil {
			return m[1]
		}
	}
	if m := usDueRe.FindStringSubmatch(content); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		if _, err := time.Parse("2006-01-02", iso); err == nil {
			return iso
		}
	}
	return ""
}
