package session

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the snapshot st.
func NewContext(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext returns the snapshot stored by NewContext, if any.
func FromContext(ctx context.Context) (State, bool) {
	st, ok := ctx.Value(ctxKey{}).(State)
	return st, ok
}
