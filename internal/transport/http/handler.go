package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/auditdesk/assistant-hub/internal/domain"
	"github.com/auditdesk/assistant-hub/internal/openai"
	"github.com/auditdesk/assistant-hub/internal/service"
)

// Handler dispatches API requests to the right assistant's orchestrator.
type Handler struct {
	registry         *service.Registry
	apiKeyConfigured bool
}

// NewHandler creates a handler over registry.
func NewHandler(registry *service.Registry, apiKeyConfigured bool) *Handler {
	return &Handler{
		registry:         registry,
		apiKeyConfigured: apiKeyConfigured,
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
	e.GET("/api/assistants", h.ListAssistants)
	e.POST("/api/assistants/:name/chat", h.Chat)
	e.GET("/api/assistants/:name/health", h.AssistantHealth)
	e.POST("/api/assistants/:name/threads/new", h.NewThread)
	e.GET("/api/assistants/:name/threads/:thread_id/messages", h.ThreadMessages)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// Chat handles one conversation turn with an assistant.
// POST /api/assistants/:name/chat
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}

	handle, ok := h.registry.Lookup(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Assistant not found"})
	}

	if !h.apiKeyConfigured {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "OpenAI API key is not configured"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := c.Request().Context()
	result, err := handle.Conversation.Send(ctx, sessionID, req.Message)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"response":      result.Response,
		"threadId":      result.ThreadID,
		"runId":         result.RunID,
		"assistantName": handle.Assistant.Name,
	})
}

// ListAssistants returns public metadata for every configured assistant.
// GET /api/assistants
func (h *Handler) ListAssistants(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"assistants": h.registry.List(),
	})
}

// AssistantHealth reports one assistant's status.
// GET /api/assistants/:name/health
func (h *Handler) AssistantHealth(c echo.Context) error {
	handle, ok := h.registry.Lookup(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Assistant not found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"assistantName": handle.Assistant.Name,
		"assistantId":   handle.Assistant.ID,
		"model":         handle.Assistant.Model,
		"activeThreads": handle.Conversation.ActiveThreads(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Health reports overall hub status.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	handles := h.registry.Handles()
	assistants := make([]map[string]any, 0, len(handles))
	for _, handle := range handles {
		assistants = append(assistants, map[string]any{
			"key":           handle.Key,
			"name":          handle.Assistant.Name,
			"activeThreads": handle.Conversation.ActiveThreads(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":           "ok",
		"apiKeyConfigured": h.apiKeyConfigured,
		"assistantsLoaded": len(h.registry.List()),
		"assistants":       assistants,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

type newThreadRequest struct {
	SessionID string `json:"sessionId"`
}

// NewThread creates a fresh thread for a session, replacing any existing one.
// POST /api/assistants/:name/threads/new
func (h *Handler) NewThread(c echo.Context) error {
	var req newThreadRequest
	if err := c.Bind(&req); err != nil || req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Session ID is required"})
	}

	handle, ok := h.registry.Lookup(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Assistant not found"})
	}

	threadID, err := handle.Conversation.NewThread(c.Request().Context(), req.SessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"threadId":  threadID,
		"sessionId": req.SessionID,
	})
}

// ThreadMessages returns a thread's conversation history, oldest first.
// GET /api/assistants/:name/threads/:thread_id/messages
func (h *Handler) ThreadMessages(c echo.Context) error {
	handle, ok := h.registry.Lookup(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Assistant not found"})
	}

	messages, err := handle.Conversation.History(c.Request().Context(), c.Param("thread_id"), 100)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"messages": messages,
	})
}

// writeError translates orchestrator failures to HTTP responses. Upstream
// credential and throttling failures keep their own status codes; run
// failures, timeouts, and everything unclassified surface as 500 with the
// error's message.
func writeError(c echo.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid API key"})
		case http.StatusTooManyRequests:
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded. Please try again later."})
		}
	}

	if errors.Is(err, domain.ErrNotConfigured) {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Assistant is not configured: missing assistant ID"})
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
