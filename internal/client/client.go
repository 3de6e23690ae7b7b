// Package client provides an HTTP client for the sessionlog REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/sessionlog/internal/model"
	"github.com/groblegark/sessionlog/internal/session"
)

// Client talks to the sessionlog HTTP/JSON API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client targeting the given base URL (e.g.
// "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// IngestResult is the flattened response of a POST to the ingress: an
// append reports the document, a flush reports the deletion count.
type IngestResult struct {
	Message          string `json:"message"`
	DocumentID       string `json:"documentId"`
	Created          bool   `json:"created"`
	Action           string `json:"action"`
	DeletedDocuments int    `json:"deletedDocuments"`
}

// PostEvent submits one event record to the ingress.
func (c *Client) PostEvent(ctx context.Context, rec model.EventRecord) (*IngestResult, error) {
	var resp struct {
		Message string          `json:"message"`
		Result  json.RawMessage `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/events", rec, &resp); err != nil {
		return nil, err
	}

	result := &IngestResult{Message: resp.Message}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
	}
	return result, nil
}

// Flush deletes every document accumulated for the session.
func (c *Client) Flush(ctx context.Context, sessionID string) (*session.FlushResult, error) {
	var res session.FlushResult
	if err := c.doJSON(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(sessionID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetSession returns all documents stored for the session.
func (c *Client) GetSession(ctx context.Context, sessionID string) ([]*model.SessionDocument, error) {
	var resp struct {
		SessionID string                   `json:"sessionId"`
		Documents []*model.SessionDocument `json:"documents"`
	}
	path := "/v1/sessions/" + url.PathEscape(sessionID) + "/events"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// Health checks the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", resp.Status)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeAPIError converts a non-2xx response into an error carrying the
// server's error and message fields when present.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
		if apiErr.Message != "" {
			return fmt.Errorf("%s: %s (HTTP %d)", apiErr.Error, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
