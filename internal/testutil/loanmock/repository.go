package loanmock

import (
	"context"
	"time"

	domain "agrifin-backend/internal/domain/loan"
)

var (
	_ domain.Repository          = (*Repo)(nil)
	_ domain.RepaymentRepository = (*RepaymentRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateWithScheduleFn func(ctx context.Context, l *domain.Loan, schedule []domain.Repayment) error
	ListByUserFn         func(ctx context.Context, userID uint64) ([]domain.Loan, error)
	PortfolioFn          func(ctx context.Context) (domain.Portfolio, error)
}

func (m *Repo) CreateWithSchedule(ctx context.Context, l *domain.Loan, schedule []domain.Repayment) error {
	if m.CreateWithScheduleFn != nil {
		return m.CreateWithScheduleFn(ctx, l, schedule)
	}
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID uint64) ([]domain.Loan, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) Portfolio(ctx context.Context) (domain.Portfolio, error) {
	if m.PortfolioFn != nil {
		return m.PortfolioFn(ctx)
	}
	return domain.Portfolio{}, context.Canceled
}

// RepaymentRepo satisfies domain.RepaymentRepository.
type RepaymentRepo struct {
	ListByUserFn  func(ctx context.Context, userID uint64, limit int) ([]domain.Repayment, error)
	MarkOverdueFn func(ctx context.Context, asOf time.Time) (int64, error)
}

func (m *RepaymentRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]domain.Repayment, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	return nil, context.Canceled
}

func (m *RepaymentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	if m.MarkOverdueFn != nil {
		return m.MarkOverdueFn(ctx, asOf)
	}
	return 0, context.Canceled
}
