package activity

import "context"

type Repository interface {
	Create(ctx context.Context, e *GetStartedEvent) error
	// ListRecent returns the newest events first.
	ListRecent(ctx context.Context, limit int) ([]GetStartedEvent, error)
}
