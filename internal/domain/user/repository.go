package user

import "context"

type Repository interface {
	// Create inserts the user and, when set, its Profile in one statement.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error

	// ListWithProfile returns users owning a role profile, optionally
	// filtered by role, oldest first.
	ListWithProfile(ctx context.Context, role Role, limit int) ([]User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}

type TokenRepository interface {
	// GetOrCreate returns the user's token, inserting candidate when none exists.
	GetOrCreate(ctx context.Context, userID uint64, candidate string) (*AuthToken, error)
	GetByToken(ctx context.Context, token string) (*AuthToken, error)
}
