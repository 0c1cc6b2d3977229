// Package openai provides an HTTP client for the Assistants v2 REST API:
// threads, messages, runs, and assistant management.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client is the Assistants API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateThread creates an empty conversation thread and returns its id.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodPost, "/threads", struct{}{}, &thread); err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

// CreateMessage appends a message to a thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, role, content string) error {
	body := map[string]string{
		"role":    role,
		"content": content,
	}
	var msg Message
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/messages", body, &msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// CreateRun starts a run of the given assistant against a thread.
func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string) (*Run, error) {
	body := map[string]string{
		"assistant_id": assistantID,
	}
	var run Run
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", body, &run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return &run, nil
}

// GetRun fetches the current state of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &run); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

// ListMessages returns up to limit messages of a thread, newest first.
// A limit of 0 uses the API default.
func (c *Client) ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error) {
	path := "/threads/" + threadID + "/messages"
	if limit > 0 {
		path += "?" + url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	}
	var resp listResponse[Message]
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return resp.Data, nil
}

// CreateAssistant creates a new remote assistant.
func (c *Client) CreateAssistant(ctx context.Context, req AssistantRequest) (*Assistant, error) {
	var assistant Assistant
	if err := c.do(ctx, http.MethodPost, "/assistants", req, &assistant); err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	return &assistant, nil
}

// GetAssistant retrieves a remote assistant by id.
func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*Assistant, error) {
	var assistant Assistant
	if err := c.do(ctx, http.MethodGet, "/assistants/"+assistantID, nil, &assistant); err != nil {
		return nil, fmt.Errorf("get assistant: %w", err)
	}
	return &assistant, nil
}

// UpdateAssistant applies req to an existing remote assistant.
func (c *Client) UpdateAssistant(ctx context.Context, assistantID string, req AssistantRequest) (*Assistant, error) {
	var assistant Assistant
	if err := c.do(ctx, http.MethodPost, "/assistants/"+assistantID, req, &assistant); err != nil {
		return nil, fmt.Errorf("update assistant: %w", err)
	}
	return &assistant, nil
}

// DeleteAssistant deletes a remote assistant.
func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) error {
	if err := c.do(ctx, http.MethodDelete, "/assistants/"+assistantID, nil, nil); err != nil {
		return fmt.Errorf("delete assistant: %w", err)
	}
	return nil
}

// ListAssistants returns up to limit remote assistants.
func (c *Client) ListAssistants(ctx context.Context, limit int) ([]Assistant, error) {
	path := "/assistants"
	if limit > 0 {
		path += "?" + url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	}
	var resp listResponse[Assistant]
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	return resp.Data, nil
}

// do executes one API request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq, body != nil)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			apiErr.Message = errResp.Error.Message
			apiErr.Type = errResp.Error.Type
			apiErr.Code = errResp.Error.Code
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
