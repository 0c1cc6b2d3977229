// Package service implements the conversation orchestration core: session
// resolution, first-turn enrichment, run polling, and the assistant registry.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/auditdesk/assistant-hub/internal/domain"
	"github.com/auditdesk/assistant-hub/internal/enrich"
	"github.com/auditdesk/assistant-hub/internal/openai"
	"github.com/auditdesk/assistant-hub/internal/session"
)

// ThreadClient is the subset of the remote API a conversation consumes.
type ThreadClient interface {
	CreateThread(ctx context.Context) (string, error)
	CreateMessage(ctx context.Context, threadID, role, content string) error
	CreateRun(ctx context.Context, threadID, assistantID string) (*openai.Run, error)
	GetRun(ctx context.Context, threadID, runID string) (*openai.Run, error)
	ListMessages(ctx context.Context, threadID string, limit int) ([]openai.Message, error)
}

// Conversation orchestrates multi-turn conversations with one assistant.
// Each assistant gets its own instance and therefore its own session table.
type Conversation struct {
	client      ThreadClient
	sessions    *session.Store
	enricher    enrich.Enricher
	poller      *Poller
	assistantID string
	log         zerolog.Logger
}

// NewConversation creates an orchestrator for the assistant identified by
// assistantID, with enricher applied to first turns.
func NewConversation(client ThreadClient, assistantID string, enricher enrich.Enricher, poller *Poller, log zerolog.Logger) *Conversation {
	if enricher == nil {
		enricher = enrich.Noop{}
	}
	return &Conversation{
		client:      client,
		sessions:    session.NewStore(client.CreateThread),
		enricher:    enricher,
		poller:      poller,
		assistantID: assistantID,
		log:         log,
	}
}

// Send runs one full conversation turn: resolve the session's thread,
// enrich the first turn, append the user message, start a run, wait for it
// to complete, and read back the newest message. A turn already appended
// stays on the thread even if the run afterwards fails; conversation
// history is not transactional with run success.
func (c *Conversation) Send(ctx context.Context, sessionID, message string) (*domain.ChatResult, error) {
	if c.assistantID == "" {
		return nil, domain.ErrNotConfigured
	}

	threadID, created, err := c.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if created {
		c.log.Info().Str("thread_id", threadID).Str("session_id", sessionID).Msg("created new thread")
	}

	firstTurn := created
	if !created {
		// The mapping predates this call; ask the remote service whether
		// the thread is still empty. A client appending turns out of band
		// can desynchronize this check.
		existing, err := c.client.ListMessages(ctx, threadID, 1)
		if err != nil {
			return nil, fmt.Errorf("check thread %s: %w", threadID, err)
		}
		firstTurn = len(existing) == 0
	}

	content := c.enricher.Enrich(message, firstTurn)

	if err := c.client.CreateMessage(ctx, threadID, "user", content); err != nil {
		return nil, err
	}

	run, err := c.client.CreateRun(ctx, threadID, c.assistantID)
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("run_id", run.ID).Str("thread_id", threadID).Msg("started run")

	if _, err := c.poller.Await(ctx, threadID, run.ID); err != nil {
		return nil, err
	}

	messages, err := c.client.ListMessages(ctx, threadID, 1)
	if err != nil {
		return nil, err
	}

	// The newest message not being the assistant's is a defined outcome,
	// reported as an empty response.
	var response string
	if len(messages) > 0 && messages[0].Role == "assistant" {
		response = messages[0].Text()
	}

	return &domain.ChatResult{
		Response: response,
		ThreadID: threadID,
		RunID:    run.ID,
	}, nil
}

// NewThread creates a fresh remote thread and binds it to sessionID,
// replacing any existing association.
func (c *Conversation) NewThread(ctx context.Context, sessionID string) (string, error) {
	threadID, err := c.client.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	c.sessions.Put(sessionID, threadID)
	c.log.Info().Str("thread_id", threadID).Str("session_id", sessionID).Msg("created new thread")
	return threadID, nil
}

// History returns up to limit turns of a thread, oldest first, with each
// turn's text segments concatenated.
func (c *Conversation) History(ctx context.Context, threadID string, limit int) ([]domain.ThreadMessage, error) {
	messages, err := c.client.ListMessages(ctx, threadID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ThreadMessage, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		out = append(out, domain.ThreadMessage{
			Role:      msg.Role,
			Content:   msg.Text(),
			CreatedAt: msg.CreatedAt,
		})
	}
	return out, nil
}

// ClearSession drops the session's thread association, reporting whether
// one existed.
func (c *Conversation) ClearSession(sessionID string) bool {
	return c.sessions.Clear(sessionID)
}

// ActiveThreads returns the number of live session mappings.
func (c *Conversation) ActiveThreads() int {
	return c.sessions.Count()
}
