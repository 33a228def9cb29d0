package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Run statuses reported by the API. A run moves from a pending status to
// exactly one terminal status.
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusExpired    = "expired"
	StatusCancelled  = "cancelled"
)

var (
	// ErrRunTimeout reports that a run reached no terminal status within
	// the polling budget.
	ErrRunTimeout = errors.New("assistant: timed out waiting for run")

	// ErrEmptyResponse reports a completed run whose thread holds no
	// readable message. Should not happen in practice, handled anyway.
	ErrEmptyResponse = errors.New("assistant: no message found in thread")
)

// RunError reports a run that ended in an error terminal status.
type RunError struct {
	Status string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("assistant: run ended with status %s", e.Status)
}

// WaitForRun polls a run at a fixed interval until it completes, ends in an
// error terminal status (RunError), or the timeout budget is exhausted
// (ErrRunTimeout). The call blocks for up to the full budget.
func (c *Client) WaitForRun(ctx context.Context, threadID, runID string, interval, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		run, err := c.GetRun(ctx, threadID, runID)
		if err != nil {
			return err
		}

		c.log.Debug().Str("run", runID).Str("status", run.Status).Msg("run status")

		switch run.Status {
		case StatusCompleted:
			return nil
		case StatusFailed, StatusExpired, StatusCancelled:
			return &RunError{Status: run.Status}
		}

		if !time.Now().Before(deadline) {
			return ErrRunTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
