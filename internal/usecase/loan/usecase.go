package loan

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"agrifin-backend/internal/domain/loan"
	"agrifin-backend/internal/events"
	"agrifin-backend/internal/metrics"
)

// RepaymentPageSize caps a farmer's repayment listing.
const RepaymentPageSize = 100

type Usecase struct {
	loans      loan.Repository
	repayments loan.RepaymentRepository
	pub        events.Publisher
	log        *zap.Logger
}

func NewUsecase(loans loan.Repository, repayments loan.RepaymentRepository, pub events.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{loans: loans, repayments: repayments, pub: pub, log: log}
}

func ToLoanDTO(l loan.Loan) LoanDTO {
	return LoanDTO{
		ID:             l.ID,
		ApplicationID:  l.ApplicationID,
		Amount:         l.Amount,
		InterestRate:   l.InterestRate,
		DurationMonths: l.DurationMonths,
		MonthlyPayment: l.MonthlyPayment,
		DisbursedAt:    l.DisbursedAt,
		CreatedAt:      l.CreatedAt,
	}
}

func ToRepaymentDTO(r loan.Repayment) RepaymentDTO {
	return RepaymentDTO{
		ID:      r.ID,
		LoanID:  r.LoanID,
		Amount:  r.Amount,
		DueDate: r.DueDate.UTC().Format(time.DateOnly),
		Status:  string(r.Status),
		PaidAt:  r.PaidAt,
	}
}

func (u *Usecase) ListLoans(ctx context.Context, userID uint64) ([]LoanDTO, error) {
	ls, err := u.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(ls, func(l loan.Loan, _ int) LoanDTO { return ToLoanDTO(l) }), nil
}

func (u *Usecase) ListRepayments(ctx context.Context, userID uint64) ([]RepaymentDTO, error) {
	rs, err := u.repayments.ListByUser(ctx, userID, RepaymentPageSize)
	if err != nil {
		return nil, err
	}
	return lo.Map(rs, func(r loan.Repayment, _ int) RepaymentDTO { return ToRepaymentDTO(r) }), nil
}

func (u *Usecase) Portfolio(ctx context.Context) (*PortfolioDTO, error) {
	p, err := u.loans.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return &PortfolioDTO{
		TotalLoans:           p.TotalLoans,
		TotalAmountDisbursed: p.TotalAmount,
		Repayments: RepaymentCounts{
			Paid:    p.PaidCount,
			Overdue: p.OverdueCount,
			Pending: p.PendingCount,
			Total:   p.RepaymentCount,
		},
	}, nil
}

// MarkOverdue flips every pending installment due before asOf (a date, time
// of day ignored) to overdue and returns how many rows changed.
func (u *Usecase) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	day := asOf.UTC().Truncate(24 * time.Hour)
	n, err := u.repayments.MarkOverdue(ctx, day)
	if err != nil {
		return 0, err
	}
	metrics.RepaymentsMarkedOverdue.Add(float64(n))
	if n > 0 {
		e := events.NewEvent(events.TypeRepaymentsOverdue, map[string]any{
			"as_of": day.Format(time.DateOnly),
			"count": n,
		})
		if err := u.pub.Publish(ctx, e); err != nil {
			u.log.Warn("publish event failed", zap.String("type", e.Type), zap.Error(err))
		}
	}
	return n, nil
}
