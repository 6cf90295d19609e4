package passwordreset

import (
	"context"
	"time"
)

type Repository interface {
	// Replace stores t as the user's only token, discarding any previous one.
	Replace(ctx context.Context, t *Token) error
	// Consume deletes and returns the token when it exists and has not
	// expired at now; otherwise ErrInvalidToken. A token is consumable once.
	Consume(ctx context.Context, token string, now time.Time) (*Token, error)
}
