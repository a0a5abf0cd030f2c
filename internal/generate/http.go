package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultModel is sent when HTTPClient.Model is empty.
const DefaultModel = "gpt-3.5-turbo"

// HTTPClient posts prompts to URL and reads the generated text from the reply.
type HTTPClient struct {
	URL   string
	Model string
	// HTTP is the client used for requests; http.DefaultClient when nil.
	HTTP *http.Client
	// Token, when set, is sent as a bearer token.
	Token string
}

// NewHTTPClient returns a client for url.
func NewHTTPClient(url, model string, httpClient *http.Client) *HTTPClient {
	return &HTTPClient{URL: url, Model: model, HTTP: httpClient}
}

type request struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// Generate sends one request. Transport errors and non-2xx replies are both
// reported as ErrGeneration.
func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	body, err := json.Marshal(request{Model: model, Input: prompt})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", ErrGeneration, resp.StatusCode)
	}
	return decodeResponse(resp.Body)
}
