package service

import (
	"context"
	"fmt"
	"time"

	"github.com/auditdesk/assistant-hub/internal/domain"
	"github.com/auditdesk/assistant-hub/internal/openai"
)

// Poll ceilings. The data-heavy ceiling stays below the 60-second inbound
// request budget typical deployment platforms enforce; both multiply with
// PollInterval to bound worst-case latency.
const (
	PollInterval        = time.Second
	InteractiveMaxPolls = 30
	DataHeavyMaxPolls   = 55
)

type runReader interface {
	GetRun(ctx context.Context, threadID, runID string) (*openai.Run, error)
}

// Poller drives a single remote run to a terminal status by fixed-interval
// status checks. No backoff, no jitter: total wall-clock cost is bounded by
// MaxAttempts * Interval.
type Poller struct {
	client      runReader
	Interval    time.Duration
	MaxAttempts int
}

// NewPoller creates a poller with the given attempt ceiling.
func NewPoller(client runReader, interval time.Duration, maxAttempts int) *Poller {
	return &Poller{client: client, Interval: interval, MaxAttempts: maxAttempts}
}

// Await polls the run until it is terminal, returning the completed run on
// success. A failure-terminal status yields a domain.RunFailure carrying the
// terminal status and any upstream-reported detail. A run still pending
// after the attempt ceiling yields domain.ErrRunTimeout. A transport error
// during a status fetch aborts polling immediately.
func (p *Poller) Await(ctx context.Context, threadID, runID string) (*openai.Run, error) {
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		run, err := p.client.GetRun(ctx, threadID, runID)
		if err != nil {
			return nil, fmt.Errorf("poll run %s: %w", runID, err)
		}

		if run.Status.Terminal() {
			if run.Status == domain.RunStatusCompleted {
				return run, nil
			}
			failure := &domain.RunFailure{Status: run.Status}
			if run.LastError != nil {
				failure.Detail = run.LastError.Message
			}
			return nil, failure
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.Interval):
		}
	}
	return nil, domain.ErrRunTimeout
}
