package loan

import (
	"context"
	"time"
)

type Repository interface {
	// CreateWithSchedule inserts the loan and then its repayments, stamping
	// each repayment with the new loan id.
	CreateWithSchedule(ctx context.Context, l *Loan, schedule []Repayment) error
	// ListByUser returns loans of the farmer's approved applications, newest first.
	ListByUser(ctx context.Context, userID uint64) ([]Loan, error)
	Portfolio(ctx context.Context) (Portfolio, error)
}

type RepaymentRepository interface {
	// ListByUser returns the farmer's installments, soonest due first.
	ListByUser(ctx context.Context, userID uint64, limit int) ([]Repayment, error)
	// MarkOverdue flips pending installments due before asOf to overdue.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
