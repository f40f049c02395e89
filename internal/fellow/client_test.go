package fellow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

func TestListNotesRequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(NotesPage{})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "secret-key")
	_, err := c.ListNotes(context.Background(), ListNotesOptions{
		Filters:  &NoteFilters{TitleContains: models.StringPtr("standup")},
		Include:  &NoteInclude{ContentMarkdown: true, Attendees: true},
		PageSize: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, "/notes/list", gotPath)
	assert.Equal(t, "secret-key", gotKey)

	filters := gotBody["filters"].(map[string]any)
	assert.Equal(t, "standup", filters["title_contains"])

	include := gotBody["include"].(map[string]any)
	assert.Equal(t, true, include["content_markdown"])
	assert.Equal(t, true, include["attendees"])

	pagination := gotBody["pagination"].(map[string]any)
	assert.Nil(t, pagination["cursor"])
	assert.Equal(t, float64(25), pagination["page_size"])
}

func TestListNotesPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Pagination Pagination `json:"pagination"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		if req.Pagination.Cursor == nil {
			json.NewEncoder(w).Encode(NotesPage{
				PageInfo: PageInfo{Cursor: models.StringPtr("p2"), PageSize: 1},
				Data:     []models.Note{{ID: "n1", Title: "First"}},
			})
			return
		}
		json.NewEncoder(w).Encode(NotesPage{
			PageInfo: PageInfo{PageSize: 1},
			Data:     []models.Note{{ID: "n2", Title: "Second"}},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "k")
	ctx := context.Background()

	first, err := c.ListNotes(ctx, ListNotesOptions{PageSize: 1})
	require.NoError(t, err)
	require.NotNil(t, first.PageInfo.Cursor)
	require.Len(t, first.Data, 1)
	assert.Equal(t, "n1", first.Data[0].ID)

	second, err := c.ListNotes(ctx, ListNotesOptions{PageSize: 1, Cursor: first.PageInfo.Cursor})
	require.NoError(t, err)
	assert.Nil(t, second.PageInfo.Cursor)
	require.Len(t, second.Data, 1)
	assert.Equal(t, "n2", second.Data[0].ID)
}

func TestGetNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/notes/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(models.Note{ID: "abc123", Title: "1:1 with Sam"})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "k")
	note, err := c.GetNote(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "1:1 with Sam", note.Title)
}

func TestAPIErrorSurfacedVerbatim(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "bad")
	_, err := c.ListRecordings(context.Background(), ListRecordingsOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid api key")

	// Single attempt, never retried.
	assert.Equal(t, 1, calls)
}

func TestTranscriptDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RecordingsPage{
			Data: []models.Recording{{
				ID:     "r1",
				NoteID: models.StringPtr("n1"),
				Transcript: &models.Transcript{
					Language: "en",
					Segments: []models.TranscriptSegment{
						{Speaker: "Alice", Text: "Hello everyone", Start: 0, End: 2.5},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "k")
	page, err := c.ListRecordings(context.Background(), ListRecordingsOptions{
		Include: &RecordingInclude{Transcript: true},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.NotNil(t, page.Data[0].Transcript)
	assert.Equal(t, "en", page.Data[0].Transcript.Language)
	require.Len(t, page.Data[0].Transcript.Segments, 1)
	assert.Equal(t, "Alice", page.Data[0].Transcript.Segments[0].Speaker)
	assert.Equal(t, 2.5, page.Data[0].Transcript.Segments[0].End)
}
