package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
)

type agentThread struct {
	ID string `json:"id"`
}

type agentRun struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type agentMessageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// runAgent executes the stateful calling convention: create a thread, post
// the input as one message, start a run bound to the task's agent, wait for a
// terminal status, then read the agent's last message. The wait is bounded by
// the configured poll timeout and the request context; there is no unbounded
// loop.
func (c *Client) runAgent(ctx context.Context, task Task, input string) (string, error) {
	var thread agentThread
	if err := c.doJSON(ctx, http.MethodPost, "/v1/threads", []byte("{}"), &thread); err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}

	msg, err := json.Marshal(map[string]string{"role": "user", "content": input})
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}
	msgPath := fmt.Sprintf("/v1/threads/%s/messages", thread.ID)
	if err := c.doJSON(ctx, http.MethodPost, msgPath, msg, nil); err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	runBody, err := json.Marshal(map[string]string{"assistant_id": task.AgentID})
	if err != nil {
		return "", fmt.Errorf("marshal run: %w", err)
	}
	var run agentRun
	runPath := fmt.Sprintf("/v1/threads/%s/runs", thread.ID)
	if err := c.doJSON(ctx, http.MethodPost, runPath, runBody, &run); err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}

	if err := c.awaitRun(ctx, thread.ID, run.ID); err != nil {
		return "", err
	}

	return c.lastAgentMessage(ctx, thread.ID)
}

// awaitRun polls run status with exponential backoff until a terminal state.
func (c *Client) awaitRun(ctx context.Context, threadID, runID string) error {
	statusPath := fmt.Sprintf("/v1/threads/%s/runs/%s", threadID, runID)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.pollInterval
	b.MaxElapsedTime = c.pollTimeout

	poll := func() error {
		var run agentRun
		if err := c.doJSON(ctx, http.MethodGet, statusPath, nil, &run); err != nil {
			return backoff.Permanent(err)
		}
		switch run.Status {
		case "completed":
			return nil
		case "failed", "cancelled", "expired":
			return backoff.Permanent(fmt.Errorf("%w: run %s ended %s",
				apperrors.ErrBackendUnavailable, runID, run.Status))
		default:
			return fmt.Errorf("run %s still %s", runID, run.Status)
		}
	}

	err := backoff.Retry(poll, backoff.WithContext(b, ctx))
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrBackendUnavailable) || errors.Is(err, apperrors.ErrMalformedResponse) {
		return err
	}
	// Poll budget exhausted (or context cancelled) while the run was still
	// in flight.
	return fmt.Errorf("%w: run %s did not finish within poll timeout: %v",
		apperrors.ErrBackendUnavailable, runID, err)
}

// lastAgentMessage reads the newest assistant-authored message on the thread
// and concatenates its text segments.
func (c *Client) lastAgentMessage(ctx context.Context, threadID string) (string, error) {
	path := fmt.Sprintf("/v1/threads/%s/messages?order=desc&limit=20", threadID)
	var list agentMessageList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	for _, m := range list.Data {
		if m.Role != "assistant" {
			continue
		}
		var sb strings.Builder
		for _, part := range m.Content {
			if part.Type == "text" {
				sb.WriteString(part.Text.Value)
			}
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("%w: thread %s has no agent message", apperrors.ErrMalformedResponse, threadID)
}
