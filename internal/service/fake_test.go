package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/auditdesk/assistant-hub/internal/domain"
	"github.com/auditdesk/assistant-hub/internal/openai"
)

// fakeThreadAPI is an in-memory stand-in for the remote service. Runs
// complete on the first status fetch and post replyText as the newest
// thread message, authored by replyRole ("assistant" by default).
type fakeThreadAPI struct {
	mu sync.Mutex

	threadSeq int
	runSeq    int
	messages  map[string][]openai.Message // newest first
	replied   map[string]bool

	replyText string
	replyRole string

	createThreadErr error
	createRunErr    error
	getRunErr       error

	appended []string // raw contents passed to CreateMessage, in order
}

func newFakeThreadAPI() *fakeThreadAPI {
	return &fakeThreadAPI{
		messages:  make(map[string][]openai.Message),
		replied:   make(map[string]bool),
		replyText: "ack",
	}
}

func (f *fakeThreadAPI) CreateThread(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createThreadErr != nil {
		return "", f.createThreadErr
	}
	f.threadSeq++
	id := fmt.Sprintf("thread_%d", f.threadSeq)
	f.messages[id] = nil
	return id, nil
}

func (f *fakeThreadAPI) CreateMessage(ctx context.Context, threadID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, content)
	f.messages[threadID] = append([]openai.Message{{
		Role:    role,
		Content: []openai.MessageContent{{Type: "text", Text: &openai.MessageText{Value: content}}},
	}}, f.messages[threadID]...)
	return nil
}

func (f *fakeThreadAPI) CreateRun(ctx context.Context, threadID, assistantID string) (*openai.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createRunErr != nil {
		return nil, f.createRunErr
	}
	f.runSeq++
	return &openai.Run{
		ID:          fmt.Sprintf("run_%d", f.runSeq),
		ThreadID:    threadID,
		AssistantID: assistantID,
		Status:      domain.RunStatusQueued,
	}, nil
}

func (f *fakeThreadAPI) GetRun(ctx context.Context, threadID, runID string) (*openai.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getRunErr != nil {
		return nil, f.getRunErr
	}
	if !f.replied[runID] {
		f.replied[runID] = true
		role := f.replyRole
		if role == "" {
			role = "assistant"
		}
		f.messages[threadID] = append([]openai.Message{{
			Role:    role,
			Content: []openai.MessageContent{{Type: "text", Text: &openai.MessageText{Value: f.replyText}}},
		}}, f.messages[threadID]...)
	}
	return &openai.Run{ID: runID, ThreadID: threadID, Status: domain.RunStatusCompleted}, nil
}

func (f *fakeThreadAPI) ListMessages(ctx context.Context, threadID string, limit int) ([]openai.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[threadID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]openai.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
