package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/auditdesk/assistant-hub/internal/domain"
	"github.com/auditdesk/assistant-hub/internal/openai"
)

// scriptedRuns replays a fixed sequence of statuses, holding the last one
// once the script is exhausted.
type scriptedRuns struct {
	statuses  []domain.RunStatus
	lastError *openai.RunError
	err       error
	calls     int
}

func (s *scriptedRuns) GetRun(ctx context.Context, threadID, runID string) (*openai.Run, error) {
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	s.calls++
	return &openai.Run{ID: runID, ThreadID: threadID, Status: s.statuses[idx], LastError: s.lastError}, nil
}

func TestAwaitCompletes(t *testing.T) {
	client := &scriptedRuns{statuses: []domain.RunStatus{
		domain.RunStatusQueued,
		domain.RunStatusInProgress,
		domain.RunStatusCompleted,
	}}
	p := NewPoller(client, time.Millisecond, 30)

	run, err := p.Await(context.Background(), "t1", "r1")
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("expected completed run, got %s", run.Status)
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 polls, got %d", client.calls)
	}
}

func TestAwaitFailureStatuses(t *testing.T) {
	for _, status := range []domain.RunStatus{
		domain.RunStatusFailed,
		domain.RunStatusCancelled,
		domain.RunStatusExpired,
	} {
		t.Run(string(status), func(t *testing.T) {
			client := &scriptedRuns{
				statuses:  []domain.RunStatus{domain.RunStatusInProgress, status},
				lastError: &openai.RunError{Code: "server_error", Message: "model overloaded"},
			}
			p := NewPoller(client, time.Millisecond, 30)

			_, err := p.Await(context.Background(), "t1", "r1")
			var failure *domain.RunFailure
			if !errors.As(err, &failure) {
				t.Fatalf("expected RunFailure, got %v", err)
			}
			if failure.Status != status {
				t.Fatalf("expected status %s, got %s", status, failure.Status)
			}
			if failure.Detail != "model overloaded" {
				t.Fatalf("upstream detail lost: %q", failure.Detail)
			}
		})
	}
}

func TestAwaitFailureWithoutDetail(t *testing.T) {
	client := &scriptedRuns{statuses: []domain.RunStatus{domain.RunStatusFailed}}
	p := NewPoller(client, time.Millisecond, 30)

	_, err := p.Await(context.Background(), "t1", "r1")
	var failure *domain.RunFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected RunFailure, got %v", err)
	}
	if failure.Error() != "run failed: unknown error" {
		t.Fatalf("expected generic fallback, got %q", failure.Error())
	}
}

func TestAwaitTimeout(t *testing.T) {
	client := &scriptedRuns{statuses: []domain.RunStatus{domain.RunStatusInProgress}}
	p := NewPoller(client, time.Millisecond, 5)

	_, err := p.Await(context.Background(), "t1", "r1")
	if !errors.Is(err, domain.ErrRunTimeout) {
		t.Fatalf("expected timeout-classified error, got %v", err)
	}
	if client.calls != 5 {
		t.Fatalf("expected the full attempt ceiling, got %d polls", client.calls)
	}
}

func TestAwaitTransportErrorAborts(t *testing.T) {
	wantErr := fmt.Errorf("connection reset")
	client := &scriptedRuns{err: wantErr}
	p := NewPoller(client, time.Millisecond, 30)

	_, err := p.Await(context.Background(), "t1", "r1")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}
	if errors.Is(err, domain.ErrRunTimeout) {
		t.Fatal("transport errors must not be classified as timeouts")
	}
}

func TestAwaitContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedRuns{statuses: []domain.RunStatus{domain.RunStatusQueued}}
	p := NewPoller(client, time.Hour, 30)

	_, err := p.Await(ctx, "t1", "r1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
