package openai

import (
	"fmt"

	"github.com/auditdesk/assistant-hub/internal/domain"
)

// Thread represents a remote conversation thread.
type Thread struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
}

// Run represents a remote asynchronous run against a thread.
type Run struct {
	ID          string           `json:"id"`
	ThreadID    string           `json:"thread_id"`
	AssistantID string           `json:"assistant_id"`
	Status      domain.RunStatus `json:"status"`
	LastError   *RunError        `json:"last_error,omitempty"`
	CreatedAt   int64            `json:"created_at"`
}

// RunError is the error detail reported on a failed run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Message represents one turn of a thread.
type Message struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`
	Content   []MessageContent `json:"content"`
	CreatedAt int64            `json:"created_at"`
}

// MessageContent is one segment of a message.
type MessageContent struct {
	Type string       `json:"type"`
	Text *MessageText `json:"text,omitempty"`
}

// MessageText holds the text value of a text segment.
type MessageText struct {
	Value string `json:"value"`
}

// Text concatenates all text segments of the message in order.
func (m Message) Text() string {
	var out string
	for _, c := range m.Content {
		if c.Type == "text" && c.Text != nil {
			out += c.Text.Value
		}
	}
	return out
}

// Assistant represents a remote assistant.
type Assistant struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Model        string   `json:"model"`
	Instructions string   `json:"instructions,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Tools        []Tool   `json:"tools,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

// Tool mirrors the remote tool definition.
type Tool struct {
	Type string `json:"type"`
}

// AssistantRequest is the payload for creating or updating an assistant.
type AssistantRequest struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Model        string   `json:"model,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Tools        []Tool   `json:"tools,omitempty"`
}

// APIError is a non-2xx response from the remote API. It retains the HTTP
// status code so callers can classify credential and rate-limit failures.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("openai API error [%d]: %s (type: %s)", e.StatusCode, e.Message, e.Type)
	}
	return fmt.Sprintf("openai API error [%d]: %s", e.StatusCode, e.Message)
}

type errorResponse struct {
	Error *errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

type listResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}
