package applicationmock

import (
	"context"

	domain "agrifin-backend/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Create and CompleteReview default to success; reads default to context.Canceled.
type Repo struct {
	CreateFn          func(ctx context.Context, a *domain.Application) error
	ListByUserFn      func(ctx context.Context, userID uint64, limit int) ([]domain.Application, error)
	ListByStatusFn    func(ctx context.Context, status domain.Status, limit int) ([]domain.Application, error)
	CountByStatusFn   func(ctx context.Context, status domain.Status) (int64, error)
	FindPendingByIDFn func(ctx context.Context, id uint64) (*domain.Application, error)
	CompleteReviewFn  func(ctx context.Context, a *domain.Application) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID uint64, limit int) ([]domain.Application, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.Application, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, status)
	}
	return 0, context.Canceled
}

func (m *Repo) FindPendingByID(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.FindPendingByIDFn != nil {
		return m.FindPendingByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) CompleteReview(ctx context.Context, a *domain.Application) error {
	if m.CompleteReviewFn != nil {
		return m.CompleteReviewFn(ctx, a)
	}
	return nil
}
