package compliance

import "context"

// Gate decides whether analysis may proceed. The variant (live provider vs
// debug bypass) is selected at construction time so the orchestrator never
// branches on environment.
type Gate interface {
	CheckPosture(ctx context.Context) (*Verdict, error)
}

// StateStore holds issued OAuth state tokens for the provider login
// handshake. Entries expire; Consume removes the token so each state is
// usable exactly once.
type StateStore interface {
	Put(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}
