package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete issues one stateless structured completion: instructions as the
// system message, input as the user message, JSON-object response mode.
func (c *Client) complete(ctx context.Context, task Task, input string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: task.Instructions},
			{Role: "user", Content: input},
		},
		Temperature:    task.Temperature,
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	var resp chatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", apperrors.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeJSON rejects trailing garbage after the JSON document.
func decodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}
