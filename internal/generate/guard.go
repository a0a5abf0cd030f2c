package generate

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrInFlight is returned by Guard.Run while an earlier request is outstanding.
var ErrInFlight = errors.New("generation already in progress")

// Guard holds the in-flight flag for one invocation site, such as an open
// editor. It rejects a second request until the first returns. The zero
// value is ready to use.
type Guard struct {
	busy atomic.Bool
}

// Run issues a single request through c unless one is already in flight.
func (g *Guard) Run(ctx context.Context, c Client, prompt string) (string, error) {
	if !g.busy.CompareAndSwap(false, true) {
		return "", ErrInFlight
	}
	defer g.busy.Store(false)
	return c.Generate(ctx, prompt)
}

// InFlight reports whether a request is outstanding.
func (g *Guard) InFlight() bool {
	return g.busy.Load()
}
