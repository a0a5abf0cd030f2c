// Package generate requests report content from a text-generation endpoint.
//
// The call is single-shot: no timeout policy of its own, no retry, no
// partial results. Every failure surfaces as ErrGeneration.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrGeneration is the single failure reported for any unsuccessful request.
var ErrGeneration = errors.New("failed to generate content")

// Client produces content for a free-text prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

func (f ClientFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// response mirrors the subset of the responses API payload that is read:
// {"output":[{"content":[{"text":"..."}]}]}.
type response struct {
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// decodeResponse extracts the first generated text from r.
func decodeResponse(r io.Reader) (string, error) {
	var resp response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrGeneration, err)
	}
	if len(resp.Output) == 0 || len(resp.Output[0].Content) == 0 {
		return "", fmt.Errorf("%w: empty output", ErrGeneration)
	}
	return resp.Output[0].Content[0].Text, nil
}
