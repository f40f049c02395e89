// Package fellow is a thin client for the Fellow.ai REST API. It translates
// structured filter/pagination options into the wire request shape and
// decodes typed responses. Every call is a single attempt; failures are
// surfaced to the caller and never retried here.
package fellow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fellowtools/fellow-mcp/internal/models"
)

const defaultPageSize = 50

// Client issues requests against a single Fellow workspace.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a client for the given workspace subdomain and API key.
func New(workspace, apiKey string) *Client {
	return NewWithBaseURL(fmt.Sprintf("https://%s.fellow.app/api/v1", workspace), apiKey)
}

// NewWithBaseURL creates a client against an explicit base URL. Used by
// tests to point the client at a local fake.
func NewWithBaseURL(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

// APIError is a non-2xx response from the remote API, carrying the status
// code and the raw error body verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fellow API error (%d): %s", e.StatusCode, e.Body)
}

// NoteFilters narrows a notes list request. All fields are optional.
type NoteFilters struct {
	TitleContains *string `json:"title_contains,omitempty"`
	CreatedAtGte  *string `json:"created_at_gte,omitempty"`
	CreatedAtLte  *string `json:"created_at_lte,omitempty"`
	UpdatedAtGte  *string `json:"updated_at_gte,omitempty"`
	UpdatedAtLte  *string `json:"updated_at_lte,omitempty"`
	EventID       *string `json:"event_id,omitempty"`
}

// NoteInclude requests expensive note fields the API omits by default.
type NoteInclude struct {
	ContentMarkdown bool `json:"content_markdown,omitempty"`
	Attendees       bool `json:"attendees,omitempty"`
}

// RecordingInclude requests expensive recording fields.
type RecordingInclude struct {
	Transcript bool `json:"transcript,omitempty"`
}

// Pagination addresses one page of a list walk. A nil cursor means "start".
type Pagination struct {
	Cursor   *string `json:"cursor"`
	PageSize int     `json:"page_size"`
}

// PageInfo is returned with every list page. A nil cursor signals the
// final page.
type PageInfo struct {
	Cursor   *string `json:"cursor"`
	PageSize int     `json:"page_size"`
}

// ListNotesOptions parameterizes a notes list request.
type ListNotesOptions struct {
	Filters  *NoteFilters
	Include  *NoteInclude
	Cursor   *string
	PageSize int
}

// ListRecordingsOptions parameterizes a recordings list request.
type ListRecordingsOptions struct {
	Filters  *NoteFilters
	Include  *RecordingInclude
	Cursor   *string
	PageSize int
}

// NotesPage is one page of notes plus the cursor to the next.
type NotesPage struct {
	PageInfo PageInfo      `json:"page_info"`
	Data     []models.Note `json:"data"`
}

// RecordingsPage is one page of recordings plus the cursor to the next.
type RecordingsPage struct {
	PageInfo PageInfo           `json:"page_info"`
	Data     []models.Recording `json:"data"`
}

type listNotesRequest struct {
	Filters    *NoteFilters `json:"filters,omitempty"`
	Include    *NoteInclude `json:"include,omitempty"`
	Pagination Pagination   `json:"pagination"`
}

type listRecordingsRequest struct {
	Filters    *NoteFilters      `json:"filters,omitempty"`
	Include    *RecordingInclude `json:"include,omitempty"`
	Pagination Pagination        `json:"pagination"`
}

// ListNotes fetches one page of notes.
func (c *Client) ListNotes(ctx context.Context, opts ListNotesOptions) (*NotesPage, error) {
	body := listNotesRequest{
		Filters:    opts.Filters,
		Include:    opts.Include,
		Pagination: Pagination{Cursor: opts.Cursor, PageSize: pageSize(opts.PageSize)},
	}
	var page NotesPage
	if err := c.post(ctx, "/notes/list", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListRecordings fetches one page of recordings.
func (c *Client) ListRecordings(ctx context.Context, opts ListRecordingsOptions) (*RecordingsPage, error) {
	body := listRecordingsRequest{
		Filters:    opts.Filters,
		Include:    opts.Include,
		Pagination: Pagination{Cursor: opts.Cursor, PageSize: pageSize(opts.PageSize)},
	}
	var page RecordingsPage
	if err := c.post(ctx, "/recordings/list", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetNote fetches a single note by id.
func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	if err := c.get(ctx, "/notes/"+id, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// GetRecording fetches a single recording by id.
func (c *Client) GetRecording(ctx context.Context, id string) (*models.Recording, error) {
	var rec models.Recording
	if err := c.get(ctx, "/recordings/"+id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func pageSize(n int) int {
	if n <= 0 {
		return defaultPageSize
	}
	return n
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
