// Package genai is a typed HTTP client for the generative extraction
// service. It speaks two calling conventions: stateless structured
// completions, and stateful agent runs (thread, message, run, poll).
package genai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/AnikS22/Scribe-checker/internal/config"
	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
)

const defaultBaseURL = "https://api.openai.com"

// Task describes one pipeline stage's call: fixed instructions for the
// completion convention, or an opaque agent binding for the agent convention.
type Task struct {
	Name         string // stage name, used for logging only
	Instructions string
	AgentID      string
	Temperature  float64
}

// Caller is the surface the pipeline depends on; tests substitute fakes.
type Caller interface {
	Generate(ctx context.Context, task Task, input string) (string, error)
}

// Client talks to an OpenAI-compatible backend. One Client is built at
// startup and shared; it holds no per-request state.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	mode         string
	pollInterval time.Duration
	pollTimeout  time.Duration
	http         *retryablehttp.Client
	log          zerolog.Logger
}

var _ Caller = (*Client)(nil)

// NewClient builds a Client from cfg. Outbound requests retry transient
// failures up to cfg.MaxRetries with exponential backoff and are each bounded
// by cfg.RequestTimeout.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	rc.Logger = nil

	base := cfg.BackendBaseURL
	if base == "" {
		base = defaultBaseURL
	}

	return &Client{
		baseURL:      base,
		apiKey:       cfg.BackendAPIKey,
		model:        cfg.BackendModel,
		mode:         cfg.BackendMode,
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
		http:         rc,
		log:          log,
	}
}

// Generate runs one task against the backend and returns the raw response
// text. The caller owns parsing; this layer only guarantees transport.
func (c *Client) Generate(ctx context.Context, task Task, input string) (string, error) {
	start := time.Now()

	var (
		out string
		err error
	)
	if c.mode == config.ModeAgent && task.AgentID != "" {
		out, err = c.runAgent(ctx, task, input)
	} else {
		out, err = c.complete(ctx, task, input)
	}

	ev := c.log.Debug()
	if err != nil {
		ev = c.log.Warn().Err(err)
	}
	ev.Str("task", task.Name).Dur("duration", time.Since(start)).Msg("backend call")

	return out, err
}

// doJSON issues a JSON request and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrBackendUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", apperrors.ErrBackendUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s: status %d", apperrors.ErrBackendUnavailable, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := decodeJSON(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrMalformedResponse, method, path, err)
	}
	return nil
}
