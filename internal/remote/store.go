// Package remote implements the project store client for the script
// service's content API and the credential loading it requires. The store
// exposes exactly two operations: fetching a project's complete file list
// and replacing it atomically.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/clasp-sub000/internal/types"
)

const defaultBaseURL = "https://script.googleapis.com"

// Store is the remote project store the sync commands depend on.
type Store interface {
	// Fetch returns the project's file list, at versionNumber when non-nil,
	// otherwise at HEAD.
	Fetch(ctx context.Context, scriptID string, versionNumber *int) ([]types.RemoteFile, error)
	// Update replaces the project's entire file list in one call.
	Update(ctx context.Context, scriptID string, files []types.RemoteFile) error
}

// Client talks to the script projects content API over an authorized HTTP
// client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client. httpClient must already carry authorization
// (see CredentialProvider).
func NewClient(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a Client against a non-default API endpoint.
// Used by tests.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// APIError is a non-2xx response from the content API.
type APIError struct {
	StatusCode int
	Status     string // API status token, e.g. "NOT_FOUND"
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("script API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("script API error %d", e.StatusCode)
}

// contentResponse is the wire shape of the content endpoints.
type contentResponse struct {
	ScriptID string             `json:"scriptId"`
	Files    []types.RemoteFile `json:"files"`
}

type contentRequest struct {
	Files []types.RemoteFile `json:"files"`
}

// Fetch implements Store.
func (c *Client) Fetch(ctx context.Context, scriptID string, versionNumber *int) ([]types.RemoteFile, error) {
	endpoint := fmt.Sprintf("%s/v1/projects/%s/content", c.baseURL, url.PathEscape(scriptID))
	if versionNumber != nil {
		endpoint += "?versionNumber=" + strconv.Itoa(*versionNumber)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching project content: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, fmt.Errorf("parsing project content: %w", err)
	}

	return content.Files, nil
}

// Update implements Store.
func (c *Client) Update(ctx context.Context, scriptID string, files []types.RemoteFile) error {
	body, err := json.Marshal(contentRequest{Files: files})
	if err != nil {
		return fmt.Errorf("marshaling project content: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/content", c.baseURL, url.PathEscape(scriptID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("updating project content: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	return nil
}

// apiError parses the standard error envelope; the raw status line is kept
// when the body is not the expected shape.
func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Status = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}
