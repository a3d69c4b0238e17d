// Package transcribe is a typed HTTP client for the speech-to-text service.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/AnikS22/Scribe-checker/internal/config"
	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
)

const defaultBaseURL = "https://api.openai.com"

// Transcriber converts raw audio into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Client uploads audio to an OpenAI-compatible transcription endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *retryablehttp.Client
	log     zerolog.Logger
}

var _ Transcriber = (*Client)(nil)

// NewClient builds a Client from cfg.
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
		baseURL: base,
		apiKey:  cfg.BackendAPIKey,
		model:   cfg.TranscribeModel,
		http:    rc,
		log:     log,
	}
}

// Transcribe uploads audio bytes and returns the plain transcribed text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	start := time.Now()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := mw.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("write format field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/audio/transcriptions", buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: transcription: %v", apperrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read transcription: %v", apperrors.ErrBackendUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: transcription status %d", apperrors.ErrBackendUnavailable, resp.StatusCode)
	}

	text := strings.TrimSpace(string(data))
	c.log.Debug().
		Str("file", filename).
		Int("bytes", len(audio)).
		Dur("duration", time.Since(start)).
		Msg("transcription complete")
	return text, nil
}
