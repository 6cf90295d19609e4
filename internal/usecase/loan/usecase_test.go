package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "agrifin-backend/internal/domain/loan"
	"agrifin-backend/internal/events"
	"agrifin-backend/internal/testutil/loanmock"
)

type recordingPublisher struct{ got []events.Event }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.got = append(p.got, e)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func TestListRepayments_CapsAndFormatsDueDate(t *testing.T) {
	due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	uc := NewUsecase(&loanmock.Repo{}, &loanmock.RepaymentRepo{
		ListByUserFn: func(_ context.Context, userID uint64, limit int) ([]domain.Repayment, error) {
			if userID != 5 || limit != RepaymentPageSize {
				t.Fatalf("got userID=%d limit=%d", userID, limit)
			}
			return []domain.Repayment{{ID: 1, LoanID: 2, Amount: decimal.RequireFromString("88.85"), DueDate: due, Status: domain.RepaymentPending}}, nil
		},
	}, nil, nil)

	out, err := uc.ListRepayments(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRepayments err: %v", err)
	}
	if len(out) != 1 || out[0].DueDate != "2025-04-10" || out[0].Status != "pending" {
		t.Fatalf("unexpected dto: %+v", out)
	}
}

func TestListLoans_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(&loanmock.Repo{
		ListByUserFn: func(context.Context, uint64) ([]domain.Loan, error) { return nil, boom },
	}, &loanmock.RepaymentRepo{}, nil, nil)

	if _, err := uc.ListLoans(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

func TestPortfolio_MapsCounts(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{
		PortfolioFn: func(context.Context) (domain.Portfolio, error) {
			return domain.Portfolio{
				TotalLoans: 2, TotalAmount: decimal.NewFromInt(3000),
				PaidCount: 1, OverdueCount: 2, PendingCount: 3, RepaymentCount: 6,
			}, nil
		},
	}, &loanmock.RepaymentRepo{}, nil, nil)

	p, err := uc.Portfolio(context.Background())
	if err != nil {
		t.Fatalf("Portfolio err: %v", err)
	}
	if p.TotalLoans != 2 || !p.TotalAmountDisbursed.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("totals mismatch: %+v", p)
	}
	if p.Repayments != (RepaymentCounts{Paid: 1, Overdue: 2, Pending: 3, Total: 6}) {
		t.Fatalf("counts mismatch: %+v", p.Repayments)
	}
}

func TestMarkOverdue_TruncatesAndPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	var gotAsOf time.Time
	uc := NewUsecase(&loanmock.Repo{}, &loanmock.RepaymentRepo{
		MarkOverdueFn: func(_ context.Context, asOf time.Time) (int64, error) {
			gotAsOf = asOf
			return 3, nil
		},
	}, pub, nil)

	n, err := uc.MarkOverdue(context.Background(), time.Date(2025, 5, 2, 17, 30, 0, 0, time.UTC))
	if err != nil || n != 3 {
		t.Fatalf("MarkOverdue: got (%d, %v)", n, err)
	}
	if !gotAsOf.Equal(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("asOf not truncated: %v", gotAsOf)
	}
	if len(pub.got) != 1 || pub.got[0].Type != events.TypeRepaymentsOverdue {
		t.Fatalf("expected one overdue event, got %+v", pub.got)
	}
}

func TestMarkOverdue_NothingToDoPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewUsecase(&loanmock.Repo{}, &loanmock.RepaymentRepo{
		MarkOverdueFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
	}, pub, nil)

	if _, err := uc.MarkOverdue(context.Background(), time.Now()); err != nil {
		t.Fatalf("MarkOverdue err: %v", err)
	}
	if len(pub.got) != 0 {
		t.Fatalf("no event expected, got %d", len(pub.got))
	}
}
