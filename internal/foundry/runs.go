package foundry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// defaultPollInterval paces run status polling inside
// CreateAndProcessRun.
const defaultPollInterval = time.Second

// Run is one execution of an agent against a thread's messages.
type Run struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AgentID   string    `json:"assistant_id"`
	Status    string    `json:"status"`
	LastError *RunError `json:"last_error"`
}

// RunError carries the platform's failure detail on a failed run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Terminal reports whether the run has reached a terminal state.
func (r Run) Terminal() bool {
	switch r.Status {
	case "completed", "failed", "cancelled", "expired", "incomplete":
		return true
	}
	return false
}

// CreateRun starts a run of the given agent on the given thread.
func (c *Client) CreateRun(ctx context.Context, threadID, agentID string) (Run, error) {
	body := struct {
		AgentID string `json:"assistant_id"`
	}{AgentID: agentID}
	var run Run
	path := fmt.Sprintf("/threads/%s/runs", url.PathEscape(threadID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// GetRun fetches the current state of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	var run Run
	path := fmt.Sprintf("/threads/%s/runs/%s", url.PathEscape(threadID), url.PathEscape(runID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// CreateAndProcessRun starts a run and blocks until it reaches a
// terminal state, polling at the client's poll interval. The only way
// to stop waiting is through ctx; the platform-side run continues
// regardless.
func (c *Client) CreateAndProcessRun(ctx context.Context, threadID, agentID string) (Run, error) {
	run, err := c.CreateRun(ctx, threadID, agentID)
	if err != nil {
		return Run{}, err
	}
	interval := c.pollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	for !run.Terminal() {
		select {
		case <-ctx.Done():
			return run, ctx.Err()
		case <-time.After(interval):
		}
		run, err = c.GetRun(ctx, threadID, run.ID)
		if err != nil {
			return Run{}, err
		}
	}
	return run, nil
}
