package domain

import "context"

type StateRepository interface {
	// Get returns nil without error when no state has been persisted yet.
	Get(ctx context.Context) (*ControllerState, error)
	Upsert(ctx context.Context, state ControllerState) error
	Clear(ctx context.Context) error
	Close()
}
