package generate

import (
	"context"
	"fmt"
	"os"
)

// FixtureClient answers every prompt with the text stored in a local JSON
// file shaped like a real response. It never touches the network.
type FixtureClient struct {
	Path string
}

// NewFixtureClient returns a client reading path.
func NewFixtureClient(path string) *FixtureClient {
	return &FixtureClient{Path: path}
}

func (c *FixtureClient) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return "", fmt.Errorf("%w: open fixture: %w", ErrGeneration, err)
	}
	defer f.Close()
	return decodeResponse(f)
}
