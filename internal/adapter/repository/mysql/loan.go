package mysql

import (
	"context"
	"time"

	appDomain "agrifin-backend/internal/domain/application"
	loanDomain "agrifin-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *LoanRepository) Tx(ctx context.Context, fn func(repo loanDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanRepository{db: tx})
	})
}

func (r *LoanRepository) CreateWithSchedule(ctx context.Context, l *loanDomain.Loan, schedule []loanDomain.Repayment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Repayments").Create(l).Error; err != nil {
		return err
	}
	if len(schedule) == 0 {
		return nil
	}
	for i := range schedule {
		schedule[i].LoanID = l.ID
	}
	if err := db.CreateInBatches(schedule, 100).Error; err != nil {
		return err
	}
	l.Repayments = schedule
	return nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Select("loans.*").
		Joins("JOIN loan_applications ON loan_applications.id = loans.application_id").
		Where("loan_applications.user_id = ? AND loan_applications.status = ?", userID, appDomain.StatusApproved).
		Order("loans.created_at DESC, loans.id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) Portfolio(ctx context.Context) (loanDomain.Portfolio, error) {
	db := r.db.WithContext(ctx)
	var p loanDomain.Portfolio

	var sums struct {
		N     int64
		Total decimal.NullDecimal
	}
	if err := db.Model(&loanDomain.Loan{}).
		Select("COUNT(*) AS n, SUM(amount) AS total").
		Scan(&sums).Error; err != nil {
		return p, err
	}
	p.TotalLoans = sums.N
	p.TotalAmount = decimal.Zero
	if sums.Total.Valid {
		p.TotalAmount = sums.Total.Decimal
	}

	var rows []struct {
		Status loanDomain.RepaymentStatus
		N      int64
	}
	if err := db.Model(&loanDomain.Repayment{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return p, err
	}
	for _, row := range rows {
		p.RepaymentCount += row.N
		switch row.Status {
		case loanDomain.RepaymentPaid:
			p.PaidCount = row.N
		case loanDomain.RepaymentOverdue:
			p.OverdueCount = row.N
		case loanDomain.RepaymentPending:
			p.PendingCount = row.N
		}
	}
	return p, nil
}

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository { return &RepaymentRepository{db: db} }

func (r *RepaymentRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]loanDomain.Repayment, error) {
	var out []loanDomain.Repayment
	res := r.db.WithContext(ctx).
		Select("repayments.*").
		Joins("JOIN loans ON loans.id = repayments.loan_id").
		Joins("JOIN loan_applications ON loan_applications.id = loans.application_id").
		Where("loan_applications.user_id = ?", userID).
		Order("repayments.due_date ASC, repayments.id ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *RepaymentRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Repayment{}).
		Where("status = ? AND due_date < ?", loanDomain.RepaymentPending, asOf.UTC()).
		Update("status", loanDomain.RepaymentOverdue)
	return res.RowsAffected, res.Error
}
