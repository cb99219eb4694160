package session

import "context"

type stateContextKey struct{}

// ContextWithState attaches the resolved state to the context.
func ContextWithState(ctx context.Context, state *State) context.Context {
	if state == nil {
		return ctx
	}
	return context.WithValue(ctx, stateContextKey{}, state)
}

// StateFromContext extracts the resolved state from the context.
func StateFromContext(ctx context.Context) (*State, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(stateContextKey{}).(*State)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
