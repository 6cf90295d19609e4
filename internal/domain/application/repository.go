package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error
	// ListByUser returns the farmer's applications, newest first.
	ListByUser(ctx context.Context, userID uint64, limit int) ([]Application, error)
	// ListByStatus returns applications with their applicant, newest first.
	ListByStatus(ctx context.Context, status Status, limit int) ([]Application, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// FindPendingByID matches on id AND status=pending; gorm.ErrRecordNotFound otherwise.
	FindPendingByID(ctx context.Context, id uint64) (*Application, error)
	// CompleteReview writes the review outcome only while the row is still
	// pending; ErrNotFound when another reviewer got there first.
	CompleteReview(ctx context.Context, a *Application) error
}
