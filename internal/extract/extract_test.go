package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckboxCompleted(t *testing.T) {
	items := Extract("- [x] Finish report @alice due: 2024-03-01")
	require.Len(t, items, 1)

	it := items[0]
	assert.True(t, it.Completed)
	assert.Equal(t, "Finish report @alice due: 2024-03-01", it.Content)
	require.NotNil(t, it.Assignee)
	assert.Equal(t, "alice", *it.Assignee)
	require.NotNil(t, it.DueDate)
	assert.Equal(t, "2024-03-01", *it.DueDate)
}

func TestCheckboxOpen(t *testing.T) {
	items := Extract("* [ ] Draft the Q2 roadmap")
	require.Len(t, items, 1)
	assert.False(t, items[0].Completed)
	assert.Equal(t, "Draft the Q2 roadmap", items[0].Content)
	assert.Nil(t, items[0].Assignee)
	assert.Nil(t, items[0].DueDate)
}

func TestLabeledVariants(t *testing.T) {
	cases := []struct {
		line    string
		content string
	}{
		{"Action Item: ship the release", "ship the release"},
		{"Action: ping legal", "ping legal"},
		{"TODO: rotate the API key", "rotate the API key"},
		{"To-Do: archive old boards", "archive old boards"},
		{"To Do: clean up invites", "clean up invites"},
		{"- todo: follow up with vendor", "follow up with vendor"},
	}
	for _, tc := range cases {
		items := Extract(tc.line)
		require.Len(t, items, 1, "line %q", tc.line)
		assert.Equal(t, tc.content, items[0].Content, "line %q", tc.line)
		assert.False(t, items[0].Completed)
	}
}

func TestMentionBullet(t *testing.T) {
	items := Extract("- @bob - send the survey by 2024-05-10")
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "@bob: send the survey by 2024-05-10", it.Content)
	require.NotNil(t, it.Assignee)
	assert.Equal(t, "bob", *it.Assignee)
	require.NotNil(t, it.DueDate)
	assert.Equal(t, "2024-05-10", *it.DueDate)
}

func TestMentionColonSeparator(t *testing.T) {
	items := Extract("* @carol: review contract")
	require.Len(t, items, 1)
	assert.Equal(t, "@carol: review contract", items[0].Content)
	require.NotNil(t, items[0].Assignee)
	assert.Equal(t, "carol", *items[0].Assignee)
}

func TestCheckboxWinsOverMention(t *testing.T) {
	// A line matching both checkbox and mention patterns must yield a
	// single checkbox item, with the assignee coming from the content scan.
	items := Extract("- [ ] @dave: prepare slides")
	require.Len(t, items, 1)
	assert.False(t, items[0].Completed)
	assert.Equal(t, "@dave: prepare slides", items[0].Content)
	require.NotNil(t, items[0].Assignee)
	assert.Equal(t, "dave", *items[0].Assignee)
}

func TestUSDateNormalization(t *testing.T) {
	items := Extract("- [ ] Review PR by 3/5/24")
	require.Len(t, items, 1)
	require.NotNil(t, items[0].DueDate)
	assert.Equal(t, "2024-03-05", *items[0].DueDate)
}

func TestUSDateFourDigitYear(t *testing.T) {
	items := Extract("- [ ] File taxes due 4/15/2025")
	require.Len(t, items, 1)
	require.NotNil(t, items[0].DueDate)
	assert.Equal(t, "2025-04-15", *items[0].DueDate)
}

func TestISOTakesPrecedenceOverUS(t *testing.T) {
	items := Extract("- [ ] Migrate DB due 2024-06-01 (was due 5/1/24)")
	require.Len(t, items, 1)
	require.NotNil(t, items[0].DueDate)
	assert.Equal(t, "2024-06-01", *items[0].DueDate)
}

func TestMalformedDatesIgnored(t *testing.T) {
	for _, line := range []string{
		"- [ ] impossible due 13/45/24",
		"- [ ] not a leap day due: 2023-02-29",
		"- [ ] no keyword 2024-03-01",
	} {
		items := Extract(line)
		require.Len(t, items, 1, "line %q", line)
		assert.Nil(t, items[0].DueDate, "line %q", line)
	}
}

func TestNonMatchingLinesSkipped(t *testing.T) {
	content := `# Weekly Sync

Some prose about the meeting.

- regular bullet, not an action
- [ ] real item one
Decisions were made.
TODO: real item two
`
	items := Extract(content)
	require.Len(t, items, 2)
	assert.Equal(t, "real item one", items[0].Content)
	assert.Equal(t, "real item two", items[1].Content)
}

func TestEmptyContent(t *testing.T) {
	assert.Empty(t, Extract(""))
}
